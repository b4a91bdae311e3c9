package models

import "github.com/insidehealthgt/hms/audit"

// RoomType is private or shared
type RoomType string

const (
	RoomTypePrivate RoomType = "PRIVATE"
	RoomTypeShared  RoomType = "SHARED"
)

// RoomGender restricts which patients a room accepts
type RoomGender string

const (
	RoomGenderMale   RoomGender = "MALE"
	RoomGenderFemale RoomGender = "FEMALE"
)

// Room is a bookable hospital room
type Room struct {
	Base
	Number   string     `json:"number" db:"number"`
	Type     RoomType   `json:"type" db:"type"`
	Gender   RoomGender `json:"gender" db:"gender"`
	Capacity int        `json:"capacity" db:"capacity"`
	Price    *Money     `json:"price" db:"price_cents"`
	Cost     *Money     `json:"cost" db:"cost_cents"`
}

var roomDescriptor = describe("Room",
	audit.Scalar("number", func(e audit.Entity) any { return e.(*Room).Number }),
	audit.Scalar("type", func(e audit.Entity) any { return string(e.(*Room).Type) }),
	audit.Scalar("gender", func(e audit.Entity) any { return string(e.(*Room).Gender) }),
	audit.Scalar("capacity", func(e audit.Entity) any { return e.(*Room).Capacity }),
	audit.Scalar("price", func(e audit.Entity) any { return e.(*Room).Price }),
	audit.Scalar("cost", func(e audit.Entity) any { return e.(*Room).Cost }),
)

// AuditDescriptor implements audit.Entity
func (r *Room) AuditDescriptor() *audit.Descriptor {
	return roomDescriptor
}

// RoomForm represents data for creating/updating rooms
type RoomForm struct {
	Number   string     `json:"number"`
	Type     RoomType   `json:"type"`
	Gender   RoomGender `json:"gender"`
	Capacity int        `json:"capacity"`
	Price    *Money     `json:"price"`
	Cost     *Money     `json:"cost"`
}

// Validate validates the room form data
func (f *RoomForm) Validate() []string {
	var errors []string

	if blank(f.Number) {
		errors = append(errors, "Room number is required")
	}
	if len(f.Number) > 50 {
		errors = append(errors, "Room number must be less than 50 characters")
	}
	if f.Type != RoomTypePrivate && f.Type != RoomTypeShared {
		errors = append(errors, "Room type must be PRIVATE or SHARED")
	}
	if f.Gender != RoomGenderMale && f.Gender != RoomGenderFemale {
		errors = append(errors, "Room gender must be MALE or FEMALE")
	}
	if f.Capacity < 1 {
		errors = append(errors, "Capacity must be at least 1")
	}
	if f.Type == RoomTypePrivate && f.Capacity > 1 {
		errors = append(errors, "Private rooms have a capacity of 1")
	}
	if f.Price != nil && *f.Price < 0 {
		errors = append(errors, "Price cannot be negative")
	}
	if f.Cost != nil && *f.Cost < 0 {
		errors = append(errors, "Cost cannot be negative")
	}

	return errors
}

// Apply copies the form onto r
func (f *RoomForm) Apply(r *Room) {
	r.Number = f.Number
	r.Type = f.Type
	r.Gender = f.Gender
	r.Capacity = f.Capacity
	r.Price = f.Price
	r.Cost = f.Cost
}
