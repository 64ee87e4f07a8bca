package services

import (
	"context"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/internal/pdf"
	"taskboard/internal/repositories"
)

type AnalyticsService interface {
	Summary(ctx context.Context, userID int64) (*models.AnalyticsSummary, error)
	ExportPDF(ctx context.Context, userID int64) ([]byte, error)
}

type analyticsService struct {
	tasks     repositories.TaskRepository
	users     repositories.UserRepository
	generator pdf.Generator
	now       func() time.Time
}

func NewAnalyticsService(tasks repositories.TaskRepository, users repositories.UserRepository, generator pdf.Generator) AnalyticsService {
	return &analyticsService{tasks: tasks, users: users, generator: generator, now: time.Now}
}

func (s *analyticsService) Summary(ctx context.Context, userID int64) (*models.AnalyticsSummary, error) {
	return s.tasks.Summary(ctx, userID)
}

func (s *analyticsService) ExportPDF(ctx context.Context, userID int64) ([]byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("not_found", "user not found")
	}
	summary, err := s.tasks.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, userID, models.DefaultListOptions())
	if err != nil {
		return nil, err
	}

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}
	return s.generator.SummaryReport(pdf.ReportData{
		Username:    name,
		GeneratedAt: s.now(),
		Summary:     *summary,
		Tasks:       tasks,
	})
}
