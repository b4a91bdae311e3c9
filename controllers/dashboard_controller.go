package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/services"
)

// DashboardController handles dashboard-related requests
type DashboardController struct {
	services *services.Services
	log      logrus.FieldLogger
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services, log logrus.FieldLogger) *DashboardController {
	return &DashboardController{
		services: services,
		log:      log,
	}
}

// Index handles GET /api/dashboard
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	data, err := c.services.Dashboard.GetDashboardData(r.Context())
	if err != nil {
		writeError(w, r, c.log, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
