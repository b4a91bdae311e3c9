package models

import (
	"time"

	"github.com/insidehealthgt/hms/audit"
)

// AdmissionStatus of a hospital stay
type AdmissionStatus string

const (
	AdmissionActive     AdmissionStatus = "ACTIVE"
	AdmissionDischarged AdmissionStatus = "DISCHARGED"
)

// Admission is one hospital stay of a patient
type Admission struct {
	Base
	Patient              *Patient        `json:"patient"`
	TriageCode           *TriageCode     `json:"triageCode"`
	Room                 *Room           `json:"room"`
	TreatingPhysician    *User           `json:"treatingPhysician"`
	AdmissionDate        time.Time       `json:"admissionDate" db:"admission_date"`
	DischargeDate        *time.Time      `json:"dischargeDate,omitempty" db:"discharge_date"`
	Status               AdmissionStatus `json:"status" db:"status"`
	Inventory            *string         `json:"inventory,omitempty" db:"inventory"`
	ConsultingPhysicians []User          `json:"consultingPhysicians"`
}

var admissionDescriptor = describe("Admission",
	audit.Relation("patient", func(e audit.Entity) (int64, bool) {
		if p := e.(*Admission).Patient; p != nil {
			return p.ID, true
		}
		return 0, false
	}),
	audit.Relation("triageCode", func(e audit.Entity) (int64, bool) {
		if t := e.(*Admission).TriageCode; t != nil {
			return t.ID, true
		}
		return 0, false
	}),
	audit.Relation("room", func(e audit.Entity) (int64, bool) {
		if r := e.(*Admission).Room; r != nil {
			return r.ID, true
		}
		return 0, false
	}),
	audit.Relation("treatingPhysician", func(e audit.Entity) (int64, bool) {
		if u := e.(*Admission).TreatingPhysician; u != nil {
			return u.ID, true
		}
		return 0, false
	}),
	audit.Scalar("admissionDate", func(e audit.Entity) any { return e.(*Admission).AdmissionDate }),
	audit.Scalar("dischargeDate", func(e audit.Entity) any { return e.(*Admission).DischargeDate }),
	audit.Scalar("status", func(e audit.Entity) any { return string(e.(*Admission).Status) }),
	audit.Scalar("inventory", func(e audit.Entity) any { return e.(*Admission).Inventory }),
	audit.Collection("consultingPhysicians"),
)

// AuditDescriptor implements audit.Entity
func (a *Admission) AuditDescriptor() *audit.Descriptor {
	return admissionDescriptor
}

// Discharge closes the stay at the given time
func (a *Admission) Discharge(at time.Time) error {
	if a.Status == AdmissionDischarged {
		return &ValidationError{Messages: []string{"Admission is already discharged"}}
	}
	a.Status = AdmissionDischarged
	a.DischargeDate = &at
	return nil
}

// AdmissionForm represents data for creating/updating admissions
type AdmissionForm struct {
	PatientID              int64      `json:"patientId"`
	TriageCodeID           int64      `json:"triageCodeId"`
	RoomID                 int64      `json:"roomId"`
	TreatingPhysicianID    int64      `json:"treatingPhysicianId"`
	AdmissionDate          *time.Time `json:"admissionDate"`
	Inventory              *string    `json:"inventory"`
	ConsultingPhysicianIDs []int64    `json:"consultingPhysicianIds"`
}

// Validate validates the admission form data
func (f *AdmissionForm) Validate() []string {
	var errors []string

	if f.PatientID <= 0 {
		errors = append(errors, "Patient is required")
	}
	if f.TriageCodeID <= 0 {
		errors = append(errors, "Triage code is required")
	}
	if f.RoomID <= 0 {
		errors = append(errors, "Room is required")
	}
	if f.TreatingPhysicianID <= 0 {
		errors = append(errors, "Treating physician is required")
	}
	for _, id := range f.ConsultingPhysicianIDs {
		if id == f.TreatingPhysicianID {
			errors = append(errors, "Treating physician cannot also be a consulting physician")
			break
		}
	}

	return errors
}
