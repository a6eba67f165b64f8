package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clegacy/internal/model"
	"clegacy/internal/repository"
)

// StatisticsService aggregates the dashboard figures. Nothing is cached;
// every call rereads the collections.
type StatisticsService interface {
	Compute(ctx context.Context) (*model.Statistics, error)
}

type statisticsService struct {
	users     repository.UserRepository
	projects  repository.ProjectRepository
	accessLog repository.AccessLogRepository
	clock     repository.Clock
}

// NewStatisticsService builds a StatisticsService.
func NewStatisticsService(users repository.UserRepository, projects repository.ProjectRepository, accessLog repository.AccessLogRepository, clock repository.Clock) StatisticsService {
	if clock == nil {
		clock = time.Now
	}
	return &statisticsService{users: users, projects: projects, accessLog: accessLog, clock: clock}
}

func (s *statisticsService) Compute(ctx context.Context) (*model.Statistics, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.accessLog.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Statistics{
		TotalUsers:       len(users),
		TotalProjects:    len(projects),
		TotalRaised:      decimal.Zero,
		TotalFundingGoal: decimal.Zero,
		TotalAccesses:    len(entries),
	}
	for _, u := range users {
		switch u.Role {
		case model.RoleAdmin:
			stats.TotalAdmins++
		case model.RoleVolunteer:
			stats.TotalVolunteers++
			stats.TotalVolunteerHours += u.VolunteerHours
		}
	}
	for _, p := range projects {
		switch p.Status {
		case model.ProjectStatusActive:
			stats.ActiveProjects++
		case model.ProjectStatusCompleted:
			stats.CompletedProjects++
		case model.ProjectStatusPaused:
			stats.PausedProjects++
		}
		stats.TotalBeneficiaries += p.BeneficiaryCount
		stats.TotalRaised = stats.TotalRaised.Add(p.FundingRaised)
		stats.TotalFundingGoal = stats.TotalFundingGoal.Add(p.FundingGoal)
	}
	stats.FundingPercentage = model.Percentage(stats.TotalRaised, stats.TotalFundingGoal)

	today := repository.Today(s.clock().UTC())
	for _, e := range entries {
		if strings.HasPrefix(e.Timestamp, today) {
			stats.AccessesToday++
		}
	}
	return stats, nil
}
