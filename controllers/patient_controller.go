package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/services"
)

// PatientController handles patient management requests
type PatientController struct {
	services *services.Services
	log      logrus.FieldLogger
}

// NewPatientController creates a new patient controller
func NewPatientController(services *services.Services, log logrus.FieldLogger) *PatientController {
	return &PatientController{services: services, log: log}
}

// Index handles GET /api/patients
func (c *PatientController) Index(w http.ResponseWriter, r *http.Request) {
	patients, err := c.services.Patients.GetAll(r.Context())
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// Show handles GET /api/patients/{id}
func (c *PatientController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	patient, err := c.services.Patients.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// Create handles POST /api/patients
func (c *PatientController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.PatientForm
	if !decodeJSON(w, r, &form) {
		return
	}
	patient, err := c.services.Patients.Create(r.Context(), &form)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, patient)
}

// Update handles PUT /api/patients/{id}
func (c *PatientController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var form models.PatientForm
	if !decodeJSON(w, r, &form) {
		return
	}
	patient, err := c.services.Patients.Update(r.Context(), id, &form)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// Delete handles DELETE /api/patients/{id}
func (c *PatientController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := c.services.Patients.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
