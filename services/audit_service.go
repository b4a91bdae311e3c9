package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/insidehealthgt/hms/audit"
	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
)

const maxAuditPageSize = 500

// AuditQuery holds the parameters of an audit log search
type AuditQuery struct {
	ActorID    *int64
	EntityType string
	EntityID   *int64
	Action     string
	From       *time.Time
	To         *time.Time
	Ascending  bool
	Page       int
	Size       int
}

// AuditService reads the audit log
type AuditService interface {
	Search(ctx context.Context, query AuditQuery) (*repositories.AuditPage, error)
	EntityHistory(ctx context.Context, query AuditQuery) (*repositories.AuditPage, error)
	EntityTypes(ctx context.Context) ([]string, error)
}

type auditService struct {
	logs        repositories.AuditRepository
	defaultSize int
}

// NewAuditService creates a new audit service
func NewAuditService(logs repositories.AuditRepository, defaultSize int) AuditService {
	if defaultSize <= 0 {
		defaultSize = 50
	}
	return &auditService{logs: logs, defaultSize: defaultSize}
}

// Search validates the query and returns one page, newest first by default
func (s *auditService) Search(ctx context.Context, query AuditQuery) (*repositories.AuditPage, error) {
	var errors []string
	action := audit.Action(query.Action)
	if query.Action != "" && !action.Valid() {
		errors = append(errors, "Action must be CREATE, UPDATE or DELETE")
	}
	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		errors = append(errors, "From must not be after to")
	}
	size := s.pageSize(query.Size)
	if query.Page < 0 {
		errors = append(errors, "Page cannot be negative")
	} else if query.Page > math.MaxInt/size {
		errors = append(errors, "Page is out of range")
	}
	if err := models.Check(errors); err != nil {
		return nil, err
	}

	page, err := s.logs.Search(ctx, repositories.AuditFilter{
		ActorID:    query.ActorID,
		EntityType: query.EntityType,
		EntityID:   query.EntityID,
		Action:     action,
		From:       query.From,
		To:         query.To,
		Ascending:  query.Ascending,
		Page:       query.Page,
		Size:       size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search audit logs: %w", err)
	}
	return page, nil
}

// EntityHistory returns the records of one entity, newest first unless
// query.Ascending is set. Entity type and id are required.
func (s *auditService) EntityHistory(ctx context.Context, query AuditQuery) (*repositories.AuditPage, error) {
	if query.EntityType == "" || query.EntityID == nil || *query.EntityID <= 0 {
		return nil, &models.ValidationError{Messages: []string{"Entity type and id are required"}}
	}
	return s.Search(ctx, query)
}

func (s *auditService) EntityTypes(ctx context.Context) ([]string, error) {
	return s.logs.EntityTypes(ctx)
}

func (s *auditService) pageSize(size int) int {
	switch {
	case size <= 0:
		return s.defaultSize
	case size > maxAuditPageSize:
		return maxAuditPageSize
	default:
		return size
	}
}
