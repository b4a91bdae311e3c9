package services

import (
	"context"
	"fmt"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
)

// DashboardData summarizes the hospital state for the landing page
type DashboardData struct {
	Patients         int      `json:"patients"`
	Rooms            int      `json:"rooms"`
	Users            int      `json:"users"`
	ActiveAdmissions int      `json:"activeAdmissions"`
	RecentActivity   []string `json:"recentActivity"`
}

// DashboardService builds the dashboard summary
type DashboardService interface {
	GetDashboardData(ctx context.Context) (*DashboardData, error)
}

type dashboardService struct {
	repos *repositories.Repositories
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repos *repositories.Repositories) DashboardService {
	return &dashboardService{repos: repos}
}

// GetDashboardData collects counts and the latest audit entries
func (s *dashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{RecentActivity: []string{}}
	var err error

	if data.Patients, err = s.repos.Patients.Count(ctx); err != nil {
		return nil, err
	}
	if data.Rooms, err = s.repos.Rooms.Count(ctx); err != nil {
		return nil, err
	}
	if data.Users, err = s.repos.Users.Count(ctx); err != nil {
		return nil, err
	}
	active, err := s.repos.Admissions.GetAll(ctx, models.AdmissionActive)
	if err != nil {
		return nil, err
	}
	data.ActiveAdmissions = len(active)

	recent, err := s.repos.Audit.Search(ctx, repositories.AuditFilter{Size: 5})
	if err != nil {
		return nil, err
	}
	for _, r := range recent.Items {
		who := "system"
		if r.ActorName != nil {
			who = *r.ActorName
		}
		data.RecentActivity = append(data.RecentActivity,
			fmt.Sprintf("%s %s %s #%d", who, r.Action, r.EntityType, r.EntityID))
	}
	return data, nil
}
