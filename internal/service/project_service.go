package service

import (
	"context"

	"clegacy/internal/model"
	"clegacy/internal/repository"
)

// ProjectService exposes project management.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int) (*model.Project, error)
	CreateProject(ctx context.Context, project *model.Project) (*model.Project, error)
	UpdateProject(ctx context.Context, id int, patch map[string]any) (*model.Project, error)
	DeleteProject(ctx context.Context, id int) (*model.Project, error)
}

type projectService struct {
	repo   repository.ProjectRepository
	logger AccessLogger
}

// NewProjectService builds a ProjectService.
func NewProjectService(repo repository.ProjectRepository, logger AccessLogger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

func (s *projectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.repo.List(ctx)
}

func (s *projectService) GetProject(ctx context.Context, id int) (*model.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *projectService) CreateProject(ctx context.Context, project *model.Project) (*model.Project, error) {
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	audit(ctx, s.logger, model.ActionCreatedProject)
	return project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id int, patch map[string]any) (*model.Project, error) {
	project, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	audit(ctx, s.logger, model.ActionUpdatedProject)
	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id int) (*model.Project, error) {
	project, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	audit(ctx, s.logger, model.ActionDeletedProject)
	return project, nil
}
