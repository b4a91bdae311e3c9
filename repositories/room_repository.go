package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/insidehealthgt/hms/database"
	"github.com/insidehealthgt/hms/models"
)

// RoomRepository interface defines room database operations
type RoomRepository interface {
	GetAll(ctx context.Context) ([]models.Room, error)
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type roomRepository struct {
	db *sql.DB
	lc *lifecycle
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *sql.DB, listener EntityListener) RoomRepository {
	return newRoomRepository(db, newLifecycle(listener))
}

func newRoomRepository(db *sql.DB, lc *lifecycle) *roomRepository {
	return &roomRepository{db: db, lc: lc}
}

const roomColumns = `
	id, number, type, gender, capacity, price_cents, cost_cents,
	created_at, updated_at, created_by, updated_by, deleted_at`

func scanRoom(row interface{ Scan(...any) error }) (*models.Room, error) {
	var room models.Room
	err := row.Scan(
		&room.ID, &room.Number, &room.Type, &room.Gender, &room.Capacity, &room.Price, &room.Cost,
		&room.CreatedAt, &room.UpdatedAt, &room.CreatedBy, &room.UpdatedBy, &room.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetAll retrieves all rooms ordered by number
func (r *roomRepository) GetAll(ctx context.Context) ([]models.Room, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms ORDER BY number ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// GetByID retrieves a room by ID
func (r *roomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	room, err := scanRoom(database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", notFound(err))
	}
	return room, nil
}

// Create inserts a new room
func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	room.Stamp(r.lc.now(), actorID(ctx))

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO rooms (number, type, gender, capacity, price_cents, cost_cents,
			created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.Number, room.Type, room.Gender, room.Capacity, room.Price, room.Cost,
		room.CreatedAt, room.UpdatedAt, room.CreatedBy, room.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	if room.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get room ID: %w", err)
	}

	r.lc.listener.AfterCreate(ctx, room)
	return nil
}

// Update saves all fields of an existing room
func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	previous, err := r.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}

	keepCreation(&room.Base, &previous.Base)
	r.lc.listener.BeforeUpdate(ctx, previous, room)
	room.Touch(r.lc.now(), actorID(ctx))

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE rooms
		SET number = ?, type = ?, gender = ?, capacity = ?, price_cents = ?, cost_cents = ?,
			updated_at = ?, updated_by = ?
		WHERE id = ?`,
		room.Number, room.Type, room.Gender, room.Capacity, room.Price, room.Cost,
		room.UpdatedAt, room.UpdatedBy, room.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if err := affectedOne(result); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	r.lc.listener.AfterUpdate(ctx, room)
	return nil
}

// Delete removes a room
func (r *roomRepository) Delete(ctx context.Context, id int64) error {
	room, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	r.lc.listener.AfterDelete(ctx, room)
	return nil
}

// Count returns the number of rooms
func (r *roomRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}
