package models

import (
	"strings"
	"time"

	"github.com/insidehealthgt/hms/audit"
)

// Base holds the identity and bookkeeping fields shared by all entities
type Base struct {
	ID        int64      `json:"id" db:"id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	CreatedBy *int64     `json:"createdBy,omitempty" db:"created_by"`
	UpdatedBy *int64     `json:"updatedBy,omitempty" db:"updated_by"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// AuditID implements audit.Entity
func (b *Base) AuditID() int64 {
	return b.ID
}

// GetBase gives repositories access to the bookkeeping fields
func (b *Base) GetBase() *Base {
	return b
}

// Stamp sets the creation and modification fields for a new row
func (b *Base) Stamp(now time.Time, actorID *int64) {
	b.CreatedAt = now
	b.UpdatedAt = now
	b.CreatedBy = actorID
	b.UpdatedBy = actorID
}

// Touch sets the modification fields for an updated row
func (b *Base) Touch(now time.Time, actorID *int64) {
	b.UpdatedAt = now
	b.UpdatedBy = actorID
}

type based interface {
	GetBase() *Base
}

func baseOf(e audit.Entity) *Base {
	return e.(based).GetBase()
}

// baseFields describes Base. Entity descriptors list them after their own fields.
func baseFields() []audit.Field {
	return []audit.Field{
		audit.Scalar("createdAt", func(e audit.Entity) any { return baseOf(e).CreatedAt }),
		audit.Scalar("updatedAt", func(e audit.Entity) any { return baseOf(e).UpdatedAt }),
		audit.Scalar("createdBy", func(e audit.Entity) any { return baseOf(e).CreatedBy }),
		audit.Scalar("updatedBy", func(e audit.Entity) any { return baseOf(e).UpdatedBy }),
		audit.Scalar("deletedAt", func(e audit.Entity) any { return baseOf(e).DeletedAt }),
	}
}

func idField() audit.Field {
	return audit.Scalar("id", func(e audit.Entity) any { return e.AuditID() })
}

// describe builds a descriptor as id, own fields, then base fields
func describe(typeName string, fields ...audit.Field) *audit.Descriptor {
	all := append([]audit.Field{idField()}, fields...)
	return audit.Describe(typeName, append(all, baseFields()...)...)
}

// ValidationError carries form validation messages
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Check returns a *ValidationError when messages is not empty
func Check(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func optional(s *string) *string {
	if s == nil || blank(*s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
