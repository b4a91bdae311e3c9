package services

import (
	"context"
	"fmt"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
)

// RoomService interface defines room business logic
type RoomService interface {
	GetAll(ctx context.Context) ([]models.Room, error)
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	Create(ctx context.Context, form *models.RoomForm) (*models.Room, error)
	Update(ctx context.Context, id int64, form *models.RoomForm) (*models.Room, error)
	Delete(ctx context.Context, id int64) error
}

type roomService struct {
	rooms      repositories.RoomRepository
	admissions repositories.AdmissionRepository
	tx         Transactor
}

// NewRoomService creates a new room service
func NewRoomService(rooms repositories.RoomRepository, admissions repositories.AdmissionRepository, tx Transactor) RoomService {
	return &roomService{rooms: rooms, admissions: admissions, tx: tx}
}

func (s *roomService) GetAll(ctx context.Context) ([]models.Room, error) {
	return s.rooms.GetAll(ctx)
}

func (s *roomService) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// Create adds a room
func (s *roomService) Create(ctx context.Context, form *models.RoomForm) (*models.Room, error) {
	if err := models.Check(form.Validate()); err != nil {
		return nil, err
	}

	room := &models.Room{}
	form.Apply(room)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.rooms.Create(ctx, room)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

// Update changes a room. Capacity cannot drop below current occupancy.
func (s *roomService) Update(ctx context.Context, id int64, form *models.RoomForm) (*models.Room, error) {
	if err := models.Check(form.Validate()); err != nil {
		return nil, err
	}

	var room *models.Room
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if room, err = s.rooms.GetByID(ctx, id); err != nil {
			return err
		}
		occupied, err := s.admissions.CountActiveByRoom(ctx, id)
		if err != nil {
			return err
		}
		if form.Capacity < occupied {
			return fmt.Errorf("room %s has %d active admissions: %w", room.Number, occupied, ErrConflict)
		}

		form.Apply(room)
		return s.rooms.Update(ctx, room)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return room, nil
}

// Delete removes an unoccupied room
func (s *roomService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		occupied, err := s.admissions.CountActiveByRoom(ctx, id)
		if err != nil {
			return err
		}
		if occupied > 0 {
			return fmt.Errorf("room %d is occupied: %w", id, ErrConflict)
		}
		return s.rooms.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
