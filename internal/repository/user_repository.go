package repository

import (
	"context"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/storage"
)

// UserRepository defines persistence operations for the users collection.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id int, patch map[string]any) (*model.User, error)
	Delete(ctx context.Context, id int) (*model.User, error)
	// SeedIfAbsent writes users only when the collection key does not exist.
	SeedIfAbsent(ctx context.Context, users []model.User) (bool, error)
}

type userRepository struct {
	users collection[model.User]
	clock Clock
}

// NewUserRepository builds a store-backed repository.
func NewUserRepository(store storage.Store, clock Clock) UserRepository {
	return &userRepository{users: newCollection[model.User](store, UsersKey), clock: clock}
}

func userID(u *model.User) int { return u.ID }

// Create assigns the next id, stamps createdAt and forces the user active.
// It does not check email uniqueness.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()

	users, _, err := r.users.load(ctx)
	if err != nil {
		return err
	}
	id, err := r.users.nextID(ctx, users, userID)
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = Today(r.clock.now())
	user.Active = true

	// Sequence first: a failed save then burns an id instead of reusing one.
	if err := r.users.storeSequence(ctx, id); err != nil {
		return err
	}
	return r.users.save(ctx, append(users, *user))
}

func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, id, userID)
	if i < 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return &users[i], nil
}

// FindByEmail returns the first user with exactly this email, active or not.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	users, _, err := r.users.load(ctx)
	return users, err
}

// Update shallow-merges patch into the first user with id.
func (r *userRepository) Update(ctx context.Context, id int, patch map[string]any) (*model.User, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()

	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, id, userID)
	if i < 0 {
		return nil, apperrors.ErrUserNotFound
	}
	merged, err := merge(users[i], patch)
	if err != nil {
		return nil, err
	}
	users[i] = merged
	if err := r.users.save(ctx, users); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Delete removes the first user with id and returns it.
func (r *userRepository) Delete(ctx context.Context, id int) (*model.User, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()

	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, id, userID)
	if i < 0 {
		return nil, apperrors.ErrUserNotFound
	}
	removed := users[i]
	users = append(users[:i], users[i+1:]...)
	if err := r.users.save(ctx, users); err != nil {
		return nil, err
	}
	return &removed, nil
}

func (r *userRepository) SeedIfAbsent(ctx context.Context, users []model.User) (bool, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()

	_, present, err := r.users.load(ctx)
	if err != nil || present {
		return false, err
	}
	if err := r.users.save(ctx, users); err != nil {
		return false, err
	}
	return true, nil
}
