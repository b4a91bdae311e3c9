package models

import "github.com/insidehealthgt/hms/audit"

// UserStatus is the account state of a staff user
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// Roles
const (
	RoleAdmin  = "ADMIN"
	RoleDoctor = "DOCTOR"
	RoleNurse  = "NURSE"
	RoleUser   = "USER"
)

var knownRoles = map[string]bool{RoleAdmin: true, RoleDoctor: true, RoleNurse: true, RoleUser: true}

// User is a staff member who can sign in
type User struct {
	Base
	Username           string     `json:"username" db:"username"`
	Email              string     `json:"email" db:"email"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	FirstName          *string    `json:"firstName,omitempty" db:"first_name"`
	LastName           *string    `json:"lastName,omitempty" db:"last_name"`
	Status             UserStatus `json:"status" db:"status"`
	EmailVerified      bool       `json:"emailVerified" db:"email_verified"`
	LocalePreference   *string    `json:"localePreference,omitempty" db:"locale_preference"`
	MustChangePassword bool       `json:"mustChangePassword" db:"must_change_password"`
	Roles              []string   `json:"roles"`
}

var userDescriptor = describe("User",
	audit.Scalar("username", func(e audit.Entity) any { return e.(*User).Username }),
	audit.Scalar("email", func(e audit.Entity) any { return e.(*User).Email }),
	audit.Scalar("passwordHash", func(e audit.Entity) any { return e.(*User).PasswordHash }),
	audit.Scalar("firstName", func(e audit.Entity) any { return e.(*User).FirstName }),
	audit.Scalar("lastName", func(e audit.Entity) any { return e.(*User).LastName }),
	audit.Scalar("status", func(e audit.Entity) any { return string(e.(*User).Status) }),
	audit.Scalar("emailVerified", func(e audit.Entity) any { return e.(*User).EmailVerified }),
	audit.Scalar("localePreference", func(e audit.Entity) any { return e.(*User).LocalePreference }),
	audit.Scalar("mustChangePassword", func(e audit.Entity) any { return e.(*User).MustChangePassword }),
	audit.Collection("roles"),
)

// AuditDescriptor implements audit.Entity
func (u *User) AuditDescriptor() *audit.Descriptor {
	return userDescriptor
}

// DisplayName is the name recorded as actor in audit logs. It is stored in
// the session at login.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != nil && u.LastName != nil:
		return *u.FirstName + " " + *u.LastName
	case u.FirstName != nil:
		return *u.FirstName
	default:
		return u.Username
	}
}

// UserForm represents data for creating/updating users
type UserForm struct {
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	FirstName        *string    `json:"firstName"`
	LastName         *string    `json:"lastName"`
	Status           UserStatus `json:"status"`
	LocalePreference *string    `json:"localePreference"`
	Roles            []string   `json:"roles"`
}

// Validate validates the user form. Password is only required on create.
func (f *UserForm) Validate(creating bool) []string {
	var errors []string

	if blank(f.Username) {
		errors = append(errors, "Username is required")
	}
	if len(f.Username) > 50 {
		errors = append(errors, "Username must be less than 50 characters")
	}
	if !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}
	if creating || f.Password != "" {
		errors = append(errors, validatePassword(f.Password)...)
	}
	switch f.Status {
	case "", UserStatusActive, UserStatusInactive, UserStatusSuspended:
	default:
		errors = append(errors, "Status is invalid")
	}
	for _, r := range f.Roles {
		if !knownRoles[r] {
			errors = append(errors, "Unknown role: "+r)
		}
	}

	return errors
}

// Apply copies the form onto u. The password is handled by the service.
func (f *UserForm) Apply(u *User) {
	u.Username = f.Username
	u.Email = f.Email
	u.FirstName = optional(f.FirstName)
	u.LastName = optional(f.LastName)
	u.LocalePreference = optional(f.LocalePreference)
	u.Status = f.Status
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	u.Roles = append([]string(nil), f.Roles...)
	if len(u.Roles) == 0 {
		u.Roles = []string{RoleUser}
	}
}

// PasswordForm is a password change request
type PasswordForm struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate validates the password form
func (f *PasswordForm) Validate() []string {
	var errors []string
	if f.CurrentPassword == "" {
		errors = append(errors, "Current password is required")
	}
	errors = append(errors, validatePassword(f.NewPassword)...)
	return errors
}

func validatePassword(p string) []string {
	if len(p) < 8 {
		return []string{"Password must be at least 8 characters"}
	}
	if len(p) > 72 {
		return []string{"Password must be at most 72 characters"}
	}
	return nil
}
