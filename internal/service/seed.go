package service

import (
	"context"
	"fmt"
)

// SeedResult reports what SeedDemoData wrote.
type SeedResult struct {
	UsersSeeded bool `json:"usersSeeded"`
	Projects    int  `json:"projects"`
}

// SeedDemoData writes the demonstration users when none exist and makes sure
// the project collection is initialized.
func SeedDemoData(ctx context.Context, users UserService, projects ProjectService) (*SeedResult, error) {
	seeded, err := users.SeedDemoUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	list, err := projects.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed projects: %w", err)
	}
	return &SeedResult{UsersSeeded: seeded, Projects: len(list)}, nil
}
