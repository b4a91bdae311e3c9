package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/services"
)

// AdmissionController handles admission requests
type AdmissionController struct {
	services *services.Services
	log      logrus.FieldLogger
}

// NewAdmissionController creates a new admission controller
func NewAdmissionController(services *services.Services, log logrus.FieldLogger) *AdmissionController {
	return &AdmissionController{services: services, log: log}
}

// Index handles GET /api/admissions?status=ACTIVE|DISCHARGED
func (c *AdmissionController) Index(w http.ResponseWriter, r *http.Request) {
	status := models.AdmissionStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.AdmissionActive, models.AdmissionDischarged:
	default:
		badRequest(w, "Invalid status")
		return
	}

	admissions, err := c.services.Admissions.GetAll(r.Context(), status)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, admissions)
}

// Show handles GET /api/admissions/{id}
func (c *AdmissionController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	admission, err := c.services.Admissions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, admission)
}

// Create handles POST /api/admissions
func (c *AdmissionController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.AdmissionForm
	if !decodeJSON(w, r, &form) {
		return
	}
	admission, err := c.services.Admissions.Admit(r.Context(), &form)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, admission)
}

// Discharge handles POST /api/admissions/{id}/discharge
func (c *AdmissionController) Discharge(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	admission, err := c.services.Admissions.Discharge(r.Context(), id)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, admission)
}

// Delete handles DELETE /api/admissions/{id}
func (c *AdmissionController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := c.services.Admissions.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TriageCodes handles GET /api/triage-codes
func (c *AdmissionController) TriageCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := c.services.Admissions.GetTriageCodes(r.Context())
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}
