package repository

import (
	"context"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/storage"
)

// ProjectRepository defines persistence operations for the projects
// collection. Every read seeds the demonstration projects when the
// collection key is absent.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id int) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, id int, patch map[string]any) (*model.Project, error)
	Delete(ctx context.Context, id int) (*model.Project, error)
}

type projectRepository struct {
	projects collection[model.Project]
	clock    Clock
}

// NewProjectRepository builds a store-backed repository.
func NewProjectRepository(store storage.Store, clock Clock) ProjectRepository {
	return &projectRepository{projects: newCollection[model.Project](store, ProjectsKey), clock: clock}
}

func projectID(p *model.Project) int { return p.ID }

// loadSeeded must be called with the mutex held.
func (r *projectRepository) loadSeeded(ctx context.Context) ([]model.Project, error) {
	projects, present, err := r.projects.load(ctx)
	if err != nil {
		return nil, err
	}
	if present {
		return projects, nil
	}
	projects = SeedProjects()
	if err := r.projects.save(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Create assigns the next id and defaults startDate to today and status to
// active.
func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	r.projects.mu.Lock()
	defer r.projects.mu.Unlock()

	projects, err := r.loadSeeded(ctx)
	if err != nil {
		return err
	}
	id, err := r.projects.nextID(ctx, projects, projectID)
	if err != nil {
		return err
	}
	project.ID = id
	if project.StartDate == "" {
		project.StartDate = Today(r.clock.now())
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusActive
	}

	// Sequence first: a failed save then burns an id instead of reusing one.
	if err := r.projects.storeSequence(ctx, id); err != nil {
		return err
	}
	return r.projects.save(ctx, append(projects, *project))
}

func (r *projectRepository) FindByID(ctx context.Context, id int) (*model.Project, error) {
	projects, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(projects, id, projectID)
	if i < 0 {
		return nil, apperrors.ErrProjectNotFound
	}
	return &projects[i], nil
}

func (r *projectRepository) List(ctx context.Context) ([]model.Project, error) {
	r.projects.mu.Lock()
	defer r.projects.mu.Unlock()
	return r.loadSeeded(ctx)
}

func (r *projectRepository) Update(ctx context.Context, id int, patch map[string]any) (*model.Project, error) {
	r.projects.mu.Lock()
	defer r.projects.mu.Unlock()

	projects, err := r.loadSeeded(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(projects, id, projectID)
	if i < 0 {
		return nil, apperrors.ErrProjectNotFound
	}
	merged, err := merge(projects[i], patch)
	if err != nil {
		return nil, err
	}
	projects[i] = merged
	if err := r.projects.save(ctx, projects); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (r *projectRepository) Delete(ctx context.Context, id int) (*model.Project, error) {
	r.projects.mu.Lock()
	defer r.projects.mu.Unlock()

	projects, err := r.loadSeeded(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(projects, id, projectID)
	if i < 0 {
		return nil, apperrors.ErrProjectNotFound
	}
	removed := projects[i]
	projects = append(projects[:i], projects[i+1:]...)
	if err := r.projects.save(ctx, projects); err != nil {
		return nil, err
	}
	return &removed, nil
}
