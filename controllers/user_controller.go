package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/services"
)

// UserController handles staff user management requests
type UserController struct {
	services *services.Services
	log      logrus.FieldLogger
}

// NewUserController creates a new user controller
func NewUserController(services *services.Services, log logrus.FieldLogger) *UserController {
	return &UserController{services: services, log: log}
}

// Index handles GET /api/users
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := c.services.Users.GetAll(r.Context())
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Show handles GET /api/users/{id}
func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	user, err := c.services.Users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Create handles POST /api/users
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.UserForm
	if !decodeJSON(w, r, &form) {
		return
	}
	user, err := c.services.Users.Create(r.Context(), &form)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Update handles PUT /api/users/{id}
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var form models.UserForm
	if !decodeJSON(w, r, &form) {
		return
	}
	user, err := c.services.Users.Update(r.Context(), id, &form)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword handles PUT /api/users/{id}/password
func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var form models.PasswordForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if err := c.services.Users.ChangePassword(r.Context(), id, &form); err != nil {
		writeError(w, r, c.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/users/{id}
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := c.services.Users.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
