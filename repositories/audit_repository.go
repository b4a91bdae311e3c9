package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/insidehealthgt/hms/audit"
)

// AuditFilter narrows an audit log search. Zero values do not filter.
type AuditFilter struct {
	ActorID    *int64
	EntityType string
	EntityID   *int64
	Action     audit.Action
	From       *time.Time
	To         *time.Time
	// Ascending returns oldest records first
	Ascending bool
	Page      int
	Size      int
}

// AuditPage is one page of audit records
type AuditPage struct {
	Items []audit.Record `json:"items"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Total int            `json:"total"`
}

// AuditRepository handles audit log persistence. Records are append-only.
type AuditRepository interface {
	audit.Store
	Search(ctx context.Context, filter AuditFilter) (*AuditPage, error)
	EntityTypes(ctx context.Context) ([]string, error)
}

type sqliteAuditRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Insert stores a record in its own transaction. It never joins the caller's
// unit of work, so it must only be called once that unit of work is over.
func (r *sqliteAuditRepository) Insert(ctx context.Context, record *audit.Record) error {
	var changed []byte
	if record.ChangedFields != nil {
		var err error
		if changed, err = json.Marshal(record.ChangedFields); err != nil {
			return fmt.Errorf("failed to encode changed fields: %w", err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}
	defer tx.Rollback()

	recordedAt := r.now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (event_id, user_id, username, action, entity_type, entity_id,
			old_values, new_values, changed_fields, ip_address, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.EventID, record.ActorID, record.ActorName, string(record.Action), record.EntityType, record.EntityID,
		nullableText(record.OldValues), nullableText(record.NewValues), nullableText(changed),
		record.SourceIP, record.Timestamp.UTC(), recordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit record ID: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit record: %w", err)
	}

	record.ID = id
	record.RecordedAt = recordedAt
	return nil
}

// Search returns one page of records matching filter
func (r *sqliteAuditRepository) Search(ctx context.Context, filter AuditFilter) (*AuditPage, error) {
	var where []string
	var args []any
	if filter.ActorID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *filter.ActorID)
	}
	if filter.EntityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != nil {
		where = append(where, "entity_id = ?")
		args = append(args, *filter.EntityID)
	}
	if filter.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.From != nil {
		where = append(where, "timestamp >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		where = append(where, "timestamp <= ?")
		args = append(args, filter.To.UTC())
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	page := &AuditPage{Page: filter.Page, Size: filter.Size, Items: []audit.Record{}}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`+clause, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count audit records: %w", err)
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}
	query := `
		SELECT id, event_id, user_id, username, action, entity_type, entity_id,
			old_values, new_values, changed_fields, ip_address, timestamp, created_at
		FROM audit_logs` + clause + `
		ORDER BY timestamp ` + order + `, id ` + order + `
		LIMIT ? OFFSET ?`
	args = append(args, filter.Size, filter.Page*filter.Size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanAuditRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		page.Items = append(page.Items, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}
	return page, nil
}

// EntityTypes returns the distinct audited entity types
func (r *sqliteAuditRepository) EntityTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT entity_type FROM audit_logs ORDER BY entity_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity types: %w", err)
	}
	defer rows.Close()

	types := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan entity type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func scanAuditRecord(row interface{ Scan(...any) error }) (*audit.Record, error) {
	var rec audit.Record
	var action string
	var oldValues, newValues, changed sql.NullString
	err := row.Scan(
		&rec.ID, &rec.EventID, &rec.ActorID, &rec.ActorName, &action, &rec.EntityType, &rec.EntityID,
		&oldValues, &newValues, &changed, &rec.SourceIP, &rec.Timestamp, &rec.RecordedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Action = audit.Action(action)
	if oldValues.Valid {
		rec.OldValues = json.RawMessage(oldValues.String)
	}
	if newValues.Valid {
		rec.NewValues = json.RawMessage(newValues.String)
	}
	if changed.Valid {
		if err := json.Unmarshal([]byte(changed.String), &rec.ChangedFields); err != nil {
			return nil, fmt.Errorf("failed to decode changed fields: %w", err)
		}
	}
	return &rec, nil
}

// nullableText stores absent JSON as NULL rather than an empty string
func nullableText(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
