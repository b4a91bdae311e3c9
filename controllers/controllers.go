package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/authenticator"
	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
	"github.com/insidehealthgt/hms/services"
)

// errorResponse is the body of every failed API call
type errorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages,omitempty"`
}

// writeJSON encodes data with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Messages: validation.Messages})
	case errors.Is(err, repositories.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, services.ErrInvalidPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: services.ErrInvalidPassword.Error()})
	case errors.Is(err, services.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// decodeJSON reads the request body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		badRequest(w, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// parseID reads the {id} URL parameter
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "Invalid ID")
		return 0, false
	}
	return id, true
}

func queryInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("Invalid " + key)
	}
	return &v, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("Invalid " + key)
	}
	return v, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("Invalid " + key + ", expected RFC 3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// Controllers holds all controller instances
type Controllers struct {
	Auth       *AuthController
	Dashboard  *DashboardController
	Users      *UserController
	Patients   *PatientController
	Rooms      *RoomController
	Admissions *AdmissionController
	AuditLogs  *AuditLogController
}

// NewControllers creates and initializes all controller instances.
// provider may be nil when interactive login is disabled.
func NewControllers(services *services.Services, provider authenticator.Provider, log logrus.FieldLogger) *Controllers {
	return &Controllers{
		Auth:       NewAuthController(provider, services.Users, log),
		Dashboard:  NewDashboardController(services, log),
		Users:      NewUserController(services, log),
		Patients:   NewPatientController(services, log),
		Rooms:      NewRoomController(services, log),
		Admissions: NewAdmissionController(services, log),
		AuditLogs:  NewAuditLogController(services, log),
	}
}
