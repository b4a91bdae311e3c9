package models

import "github.com/insidehealthgt/hms/audit"

// Sex of a patient
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// EmergencyContact is a person to call for a patient
type EmergencyContact struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Relationship string `json:"relationship" db:"relationship"`
	Phone        string `json:"phone" db:"phone"`
}

// Patient represents a registered patient
type Patient struct {
	Base
	FirstName         string             `json:"firstName" db:"first_name"`
	LastName          string             `json:"lastName" db:"last_name"`
	Age               int                `json:"age" db:"age"`
	Sex               Sex                `json:"sex" db:"sex"`
	MaritalStatus     *string            `json:"maritalStatus,omitempty" db:"marital_status"`
	Occupation        *string            `json:"occupation,omitempty" db:"occupation"`
	Address           *string            `json:"address,omitempty" db:"address"`
	Email             *string            `json:"email,omitempty" db:"email"`
	IDDocumentNumber  *string            `json:"idDocumentNumber,omitempty" db:"id_document_number"`
	Notes             *string            `json:"notes,omitempty" db:"notes"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
}

var patientDescriptor = describe("Patient",
	audit.Scalar("firstName", func(e audit.Entity) any { return e.(*Patient).FirstName }),
	audit.Scalar("lastName", func(e audit.Entity) any { return e.(*Patient).LastName }),
	audit.Scalar("age", func(e audit.Entity) any { return e.(*Patient).Age }),
	audit.Scalar("sex", func(e audit.Entity) any { return string(e.(*Patient).Sex) }),
	audit.Scalar("maritalStatus", func(e audit.Entity) any { return e.(*Patient).MaritalStatus }),
	audit.Scalar("occupation", func(e audit.Entity) any { return e.(*Patient).Occupation }),
	audit.Scalar("address", func(e audit.Entity) any { return e.(*Patient).Address }),
	audit.Scalar("email", func(e audit.Entity) any { return e.(*Patient).Email }),
	audit.Scalar("idDocumentNumber", func(e audit.Entity) any { return e.(*Patient).IDDocumentNumber }),
	audit.Scalar("notes", func(e audit.Entity) any { return e.(*Patient).Notes }),
	audit.Collection("emergencyContacts"),
)

// AuditDescriptor implements audit.Entity
func (p *Patient) AuditDescriptor() *audit.Descriptor {
	return patientDescriptor
}

// PatientForm represents data for creating/updating patients
type PatientForm struct {
	FirstName         string             `json:"firstName"`
	LastName          string             `json:"lastName"`
	Age               int                `json:"age"`
	Sex               Sex                `json:"sex"`
	MaritalStatus     *string            `json:"maritalStatus"`
	Occupation        *string            `json:"occupation"`
	Address           *string            `json:"address"`
	Email             *string            `json:"email"`
	IDDocumentNumber  *string            `json:"idDocumentNumber"`
	Notes             *string            `json:"notes"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
}

// Validate validates the patient form data
func (f *PatientForm) Validate() []string {
	var errors []string

	if blank(f.FirstName) {
		errors = append(errors, "First name is required")
	}
	if blank(f.LastName) {
		errors = append(errors, "Last name is required")
	}
	if f.Age < 0 || f.Age > 150 {
		errors = append(errors, "Age must be between 0 and 150")
	}
	if f.Sex != SexMale && f.Sex != SexFemale {
		errors = append(errors, "Sex must be MALE or FEMALE")
	}
	if f.Email != nil && !blank(*f.Email) && !isValidEmail(*f.Email) {
		errors = append(errors, "Email format is invalid")
	}
	for _, c := range f.EmergencyContacts {
		if blank(c.Name) || blank(c.Phone) {
			errors = append(errors, "Emergency contacts need a name and phone")
			break
		}
	}

	return errors
}

// Apply copies the form onto p
func (f *PatientForm) Apply(p *Patient) {
	p.FirstName = f.FirstName
	p.LastName = f.LastName
	p.Age = f.Age
	p.Sex = f.Sex
	p.MaritalStatus = optional(f.MaritalStatus)
	p.Occupation = optional(f.Occupation)
	p.Address = optional(f.Address)
	p.Email = optional(f.Email)
	p.IDDocumentNumber = optional(f.IDDocumentNumber)
	p.Notes = optional(f.Notes)
	p.EmergencyContacts = append([]EmergencyContact(nil), f.EmergencyContacts...)
}
