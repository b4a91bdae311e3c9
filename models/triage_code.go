package models

import "time"

// TriageCode is reference data seeded by migration. It is read-only and
// therefore never audited.
type TriageCode struct {
	ID           int64     `json:"id" db:"id"`
	Code         string    `json:"code" db:"code"`
	Color        string    `json:"color" db:"color"`
	Description  *string   `json:"description,omitempty" db:"description"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
