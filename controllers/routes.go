package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterAPI mounts the JSON API under /api. Callers add authentication;
// auditAccess guards the audit log routes.
func (c *Controllers) RegisterAPI(r chi.Router, auditAccess ...func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", c.Dashboard.Index)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", c.Users.Index)
			r.Post("/", c.Users.Create)
			r.Get("/{id}", c.Users.Show)
			r.Put("/{id}", c.Users.Update)
			r.Put("/{id}/password", c.Users.ChangePassword)
			r.Delete("/{id}", c.Users.Delete)
		})

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", c.Patients.Index)
			r.Post("/", c.Patients.Create)
			r.Get("/{id}", c.Patients.Show)
			r.Put("/{id}", c.Patients.Update)
			r.Delete("/{id}", c.Patients.Delete)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", c.Rooms.Index)
			r.Post("/", c.Rooms.Create)
			r.Get("/{id}", c.Rooms.Show)
			r.Put("/{id}", c.Rooms.Update)
			r.Delete("/{id}", c.Rooms.Delete)
		})

		r.Get("/triage-codes", c.Admissions.TriageCodes)
		r.Route("/admissions", func(r chi.Router) {
			r.Get("/", c.Admissions.Index)
			r.Post("/", c.Admissions.Create)
			r.Get("/{id}", c.Admissions.Show)
			r.Post("/{id}/discharge", c.Admissions.Discharge)
			r.Delete("/{id}", c.Admissions.Delete)
		})

		r.Route("/audit-logs", func(r chi.Router) {
			r.Use(auditAccess...)
			r.Get("/", c.AuditLogs.Index)
			r.Get("/entity", c.AuditLogs.History)
			r.Get("/entity-types", c.AuditLogs.EntityTypes)
		})
	})
}
