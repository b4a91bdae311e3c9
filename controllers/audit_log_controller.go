package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/services"
)

// AuditLogController exposes the read side of the audit log
type AuditLogController struct {
	services *services.Services
	log      logrus.FieldLogger
}

// NewAuditLogController creates a new audit log controller
func NewAuditLogController(services *services.Services, log logrus.FieldLogger) *AuditLogController {
	return &AuditLogController{services: services, log: log}
}

// Index handles GET /api/audit-logs
//
// Query parameters: userId, entityType, entityId, action, from, to,
// order (asc|desc), page (0-based) and size.
func (c *AuditLogController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := services.AuditQuery{
		EntityType: q.Get("entityType"),
		Action:     q.Get("action"),
	}

	if !c.order(w, r, &query.Ascending) {
		return
	}

	var err error
	if query.ActorID, err = queryInt64(r, "userId"); err != nil {
		badRequest(w, err.Error())
		return
	}
	if query.EntityID, err = queryInt64(r, "entityId"); err != nil {
		badRequest(w, err.Error())
		return
	}
	if query.From, err = queryTime(r, "from"); err != nil {
		badRequest(w, err.Error())
		return
	}
	if query.To, err = queryTime(r, "to"); err != nil {
		badRequest(w, err.Error())
		return
	}
	if !c.paging(w, r, &query.Page, &query.Size) {
		return
	}

	page, err := c.services.Audit.Search(r.Context(), query)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// History handles GET /api/audit-logs/entity?entityType=&entityId=
// with the same order and paging parameters as Index
func (c *AuditLogController) History(w http.ResponseWriter, r *http.Request) {
	query := services.AuditQuery{EntityType: r.URL.Query().Get("entityType")}

	var err error
	if query.EntityID, err = queryInt64(r, "entityId"); err != nil {
		badRequest(w, err.Error())
		return
	}
	if !c.order(w, r, &query.Ascending) || !c.paging(w, r, &query.Page, &query.Size) {
		return
	}

	result, err := c.services.Audit.EntityHistory(r.Context(), query)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// EntityTypes handles GET /api/audit-logs/entity-types
func (c *AuditLogController) EntityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := c.services.Audit.EntityTypes(r.Context())
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	if types == nil {
		types = []string{}
	}
	writeJSON(w, http.StatusOK, types)
}

// order reads order=asc|desc; newest first when absent
func (c *AuditLogController) order(w http.ResponseWriter, r *http.Request, ascending *bool) bool {
	switch r.URL.Query().Get("order") {
	case "", "desc":
		*ascending = false
	case "asc":
		*ascending = true
	default:
		badRequest(w, "Invalid order, expected asc or desc")
		return false
	}
	return true
}

func (c *AuditLogController) paging(w http.ResponseWriter, r *http.Request, page, size *int) bool {
	var err error
	if *page, err = queryInt(r, "page"); err != nil {
		badRequest(w, err.Error())
		return false
	}
	if *size, err = queryInt(r, "size"); err != nil {
		badRequest(w, err.Error())
		return false
	}
	return true
}
