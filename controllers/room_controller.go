package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/services"
)

// RoomController handles room management requests
type RoomController struct {
	services *services.Services
	log      logrus.FieldLogger
}

// NewRoomController creates a new room controller
func NewRoomController(services *services.Services, log logrus.FieldLogger) *RoomController {
	return &RoomController{services: services, log: log}
}

// Index handles GET /api/rooms
func (c *RoomController) Index(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.services.Rooms.GetAll(r.Context())
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// Show handles GET /api/rooms/{id}
func (c *RoomController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	room, err := c.services.Rooms.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Create handles POST /api/rooms
func (c *RoomController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.RoomForm
	if !decodeJSON(w, r, &form) {
		return
	}
	room, err := c.services.Rooms.Create(r.Context(), &form)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// Update handles PUT /api/rooms/{id}
func (c *RoomController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var form models.RoomForm
	if !decodeJSON(w, r, &form) {
		return
	}
	room, err := c.services.Rooms.Update(r.Context(), id, &form)
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Delete handles DELETE /api/rooms/{id}
func (c *RoomController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := c.services.Rooms.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
