package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"clegacy/internal/auth"
	"clegacy/internal/model"
	"clegacy/internal/repository"
	"clegacy/internal/storage"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int, patch map[string]any) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SeedIfAbsent(ctx context.Context, users []model.User) (bool, error) {
	args := m.Called(ctx, users)
	return args.Bool(0), args.Error(1)
}

// MockAccessLogger is a mock implementation of AccessLogger.
type MockAccessLogger struct {
	mock.Mock
}

func (m *MockAccessLogger) Record(ctx context.Context, session model.Session, action string) error {
	args := m.Called(ctx, session, action)
	return args.Error(0)
}

func (m *MockAccessLogger) RecordCurrent(ctx context.Context, action string) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockAccessLogger) List(ctx context.Context) ([]model.AccessLogEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.AccessLogEntry), args.Error(1)
}

func (m *MockAccessLogger) Recent(ctx context.Context, limit int) ([]model.AccessLogEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.AccessLogEntry), args.Error(1)
}

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// fixture wires the real store-backed services over one memory store.
type fixture struct {
	store     *storage.MemoryStore
	users     repository.UserRepository
	projects  repository.ProjectRepository
	accessLog repository.AccessLogRepository
	sessions  repository.SessionRepository
	logger    AccessLogger
	hasher    *auth.PasswordHasher

	userService    UserService
	projectService ProjectService
	sessionService SessionService
	stats          StatisticsService
}

func newFixture(allowLegacy bool) *fixture {
	f := &fixture{store: storage.NewMemoryStore()}
	f.users = repository.NewUserRepository(f.store, testClock)
	f.projects = repository.NewProjectRepository(f.store, testClock)
	f.accessLog = repository.NewAccessLogRepository(f.store)
	f.sessions = repository.NewSessionRepository(f.store)
	f.logger = NewAccessLogger(f.accessLog, f.sessions, testClock)
	f.hasher = &auth.PasswordHasher{Cost: 4, AllowLegacy: allowLegacy}

	f.userService = NewUserService(f.users, f.logger, f.hasher)
	f.projectService = NewProjectService(f.projects, f.logger)
	f.sessionService = NewSessionService(f.users, f.sessions, f.logger, f.hasher, testClock)
	f.stats = NewStatisticsService(f.users, f.projects, f.accessLog, testClock)
	return f
}
