package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/insidehealthgt/hms/database"
	"github.com/insidehealthgt/hms/models"
)

// TriageCodeRepository reads the seeded triage codes
type TriageCodeRepository interface {
	GetAll(ctx context.Context) ([]models.TriageCode, error)
	GetByID(ctx context.Context, id int64) (*models.TriageCode, error)
}

type triageCodeRepository struct {
	db *sql.DB
}

// NewTriageCodeRepository creates a new triage code repository
func NewTriageCodeRepository(db *sql.DB) TriageCodeRepository {
	return &triageCodeRepository{db: db}
}

const triageColumns = `id, code, color, description, display_order, created_at`

// GetAll retrieves all triage codes in display order
func (r *triageCodeRepository) GetAll(ctx context.Context) ([]models.TriageCode, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+triageColumns+` FROM triage_codes ORDER BY display_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query triage codes: %w", err)
	}
	defer rows.Close()

	var codes []models.TriageCode
	for rows.Next() {
		var c models.TriageCode
		if err := rows.Scan(&c.ID, &c.Code, &c.Color, &c.Description, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan triage code: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating triage codes: %w", err)
	}
	return codes, nil
}

// GetByID retrieves a triage code by ID
func (r *triageCodeRepository) GetByID(ctx context.Context, id int64) (*models.TriageCode, error) {
	var c models.TriageCode
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+triageColumns+` FROM triage_codes WHERE id = ?`, id).
		Scan(&c.ID, &c.Code, &c.Color, &c.Description, &c.DisplayOrder, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get triage code: %w", notFound(err))
	}
	return &c, nil
}
