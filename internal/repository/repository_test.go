package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/storage"
)

func fixedClock() Clock {
	return func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
}

func TestUserRepository_CreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(storage.NewMemoryStore(), fixedClock())

	for want := 1; want <= 3; want++ {
		u := &model.User{Name: "Volunteer", Email: "v@example.org", Role: model.RoleVolunteer}
		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, want, u.ID)
		assert.True(t, u.Active)
		assert.Equal(t, "2025-03-14", u.CreatedAt)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserRepository_DeletedIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(storage.NewMemoryStore(), fixedClock())

	first := &model.User{Name: "A"}
	second := &model.User{Name: "B"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	_, err := repo.Delete(ctx, second.ID)
	require.NoError(t, err)

	third := &model.User{Name: "C"}
	require.NoError(t, repo.Create(ctx, third))
	assert.Equal(t, 3, third.ID)
}

// failingStore rejects writes to keys with the given prefix.
type failingStore struct {
	storage.Store
	prefix string
}

var errWriteRejected = errors.New("write rejected")

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.prefix != "" && strings.HasPrefix(key, s.prefix) {
		return errWriteRejected
	}
	return s.Store.Set(ctx, key, value)
}

func TestUserRepository_CreateWritesSequenceFirst(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: storage.NewMemoryStore(), prefix: "sequence:"}
	repo := NewUserRepository(store, fixedClock())

	err := repo.Create(ctx, &model.User{Name: "A"})
	require.ErrorIs(t, err, errWriteRejected)
	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	store.prefix = UsersKey
	err = repo.Create(ctx, &model.User{Name: "B"})
	require.ErrorIs(t, err, errWriteRejected)

	store.prefix = ""
	c := &model.User{Name: "C"}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, 2, c.ID)
}

func TestProjectRepository_CreateWritesSequenceFirst(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: storage.NewMemoryStore()}
	repo := NewProjectRepository(store, fixedClock())
	before, err := repo.List(ctx)
	require.NoError(t, err)

	store.prefix = "sequence:"
	require.ErrorIs(t, repo.Create(ctx, &model.Project{Title: "Horta"}), errWriteRejected)
	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(storage.NewMemoryStore(), fixedClock())
	u := &model.User{Name: "Ana", Email: "ana@example.org", Role: model.RoleVolunteer, Phone: "(11) 91234-5678", VolunteerHours: 12}
	require.NoError(t, repo.Create(ctx, u))

	tests := []struct {
		name  string
		patch map[string]any
		check func(t *testing.T, got *model.User)
	}{
		{
			name:  "empty patch is a no-op",
			patch: map[string]any{},
			check: func(t *testing.T, got *model.User) {
				assert.Equal(t, *u, *got)
			},
		},
		{
			name:  "partial patch preserves other fields",
			patch: map[string]any{"name": "Ana Maria"},
			check: func(t *testing.T, got *model.User) {
				assert.Equal(t, "Ana Maria", got.Name)
				assert.Equal(t, "ana@example.org", got.Email)
				assert.Equal(t, "(11) 91234-5678", got.Phone)
				assert.Equal(t, 12, got.VolunteerHours)
			},
		},
		{
			name:  "id in patch is ignored",
			patch: map[string]any{"id": 99, "volunteerHours": 20},
			check: func(t *testing.T, got *model.User) {
				assert.Equal(t, u.ID, got.ID)
				assert.Equal(t, 20, got.VolunteerHours)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Update(ctx, u.ID, tt.patch)
			require.NoError(t, err)
			tt.check(t, got)

			stored, err := repo.FindByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, *got, *stored)
		})
	}
}

func TestUserRepository_Update_InvalidFieldType(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(storage.NewMemoryStore(), fixedClock())
	u := &model.User{Name: "Ana"}
	require.NoError(t, repo.Create(ctx, u))

	_, err := repo.Update(ctx, u.ID, map[string]any{"volunteerHours": "many"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRepositories_NotFound(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	users := NewUserRepository(store, fixedClock())
	projects := NewProjectRepository(store, fixedClock())

	_, err := users.FindByID(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = users.Update(ctx, 42, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = users.Delete(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = users.FindByEmail(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = projects.FindByID(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	_, err = projects.Update(ctx, 42, map[string]any{"title": "x"})
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	_, err = projects.Delete(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestUserRepository_FirstMatchWins(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, UsersKey, []byte(`[{"id":1,"name":"first"},{"id":1,"name":"second"}]`)))
	repo := NewUserRepository(store, fixedClock())

	got, err := repo.Update(ctx, 1, map[string]any{"name": "updated"})
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Name)

	removed, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "updated", removed.Name)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "second", users[0].Name)
}

func TestUserRepository_CorruptCollection(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, UsersKey, []byte(`{not json`)))
	repo := NewUserRepository(store, fixedClock())

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, apperrors.ErrCorruptCollection)

	err = repo.Create(ctx, &model.User{Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrCorruptCollection)
}

func TestUserRepository_SeedIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(storage.NewMemoryStore(), fixedClock())

	seeded, err := repo.SeedIfAbsent(ctx, []model.User{{ID: 1, Name: "Admin", Role: model.RoleAdmin}})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.SeedIfAbsent(ctx, []model.User{{ID: 1, Name: "Other"}})
	require.NoError(t, err)
	assert.False(t, seeded)

	u, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Name)
}

func TestProjectRepository_SeedsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(storage.NewMemoryStore(), fixedClock())

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 5)
	for i, p := range projects {
		assert.Equal(t, i+1, p.ID)
		assert.Nil(t, p.EndDate)
	}
	assert.Equal(t, "C para Todos", projects[0].Title)
	assert.True(t, projects[0].FundingRaised.Equal(decimal.NewFromInt(42000)))
}

func TestProjectRepository_EmptyCollectionIsNotReseeded(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, ProjectsKey, []byte(`[]`)))
	repo := NewProjectRepository(store, fixedClock())

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectRepository_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(storage.NewMemoryStore(), fixedClock())

	p := &model.Project{Title: "Mentoria", FundingGoal: decimal.NewFromInt(1000)}
	require.NoError(t, repo.Create(ctx, p))

	assert.Equal(t, 6, p.ID)
	assert.Equal(t, "2025-03-14", p.StartDate)
	assert.Equal(t, model.ProjectStatusActive, p.Status)

	paused := &model.Project{Title: "Pausado", Status: model.ProjectStatusPaused, StartDate: "2024-12-01"}
	require.NoError(t, repo.Create(ctx, paused))
	assert.Equal(t, 7, paused.ID)
	assert.Equal(t, "2024-12-01", paused.StartDate)
	assert.Equal(t, model.ProjectStatusPaused, paused.Status)
}

func TestProjectRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(storage.NewMemoryStore(), fixedClock())

	got, err := repo.Update(ctx, 2, map[string]any{"status": "completed", "fundingRaised": "90000"})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusCompleted, got.Status)
	assert.True(t, got.FundingRaised.Equal(decimal.NewFromInt(90000)))
	assert.Equal(t, "Bootcamp Avançado", got.Title)

	removed, err := repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed.ID)

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 4)
}

func TestAccessLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccessLogRepository(storage.NewMemoryStore())

	for _, action := range []string{model.ActionLogin, model.ActionCreatedProject, model.ActionLogout} {
		entry := &model.AccessLogEntry{UserID: 1, Action: action}
		require.NoError(t, repo.Append(ctx, entry))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, e := range all {
		assert.Equal(t, i+1, e.ID)
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, model.ActionLogout, recent[0].Action)
	assert.Equal(t, model.ActionCreatedProject, recent[1].Action)

	recent, err = repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	recent, err = repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(storage.NewMemoryStore())

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	want := model.Session{UserID: 1, UserName: "Admin", Email: "admin@example.org", Role: model.RoleAdmin, LoginTime: "2025-03-14T09:30:00Z"}
	require.NoError(t, repo.Save(ctx, want))

	s, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, want, *s)

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))
	s, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionRepository_Slots(t *testing.T) {
	store := storage.NewMemoryStore()
	repo := NewSessionRepository(store)
	browserA := model.WithSessionSlot(context.Background(), "a")
	browserB := model.WithSessionSlot(context.Background(), "b")

	require.NoError(t, repo.Save(browserA, model.Session{UserID: 1}))

	s, err := repo.Get(browserB)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = repo.Get(browserA)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, s.UserID)

	_, ok, err := store.Get(context.Background(), "session:a")
	require.NoError(t, err)
	assert.True(t, ok)
}
