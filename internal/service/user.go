// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roster/roster/internal/metrics"
	"github.com/roster/roster/internal/model"
	"github.com/roster/roster/internal/repository"
)

// MaxListUsers caps the number of records returned by ListUsers. Older records
// beyond the cap are omitted; there is no cursor.
const MaxListUsers = 50

// Service errors.
var (
	// ErrValidation means name or email is missing, not a string, or empty.
	ErrValidation = errors.New("name and email are required")
	// ErrStorageUnavailable covers connection and driver failures.
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)

// UserStore is the persistence gateway as seen by the service.
type UserStore interface {
	Ping(ctx context.Context) error
	ListUsers(ctx context.Context, limit int64) ([]model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// UserService handles user record business logic.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user. A nil field was absent
// from the request.
type CreateUserInput struct {
	Name  *string
	Email *string
}

// Validate checks presence only. Values are stored exactly as given.
func (in CreateUserInput) Validate() error {
	if in.Name == nil || in.Email == nil || *in.Name == "" || *in.Email == "" {
		return ErrValidation
	}
	return nil
}

// Health reports whether the store is reachable, connecting if needed.
func (s *UserService) Health(ctx context.Context) error {
	start := time.Now()
	err := s.store.Ping(ctx)
	s.metrics.ObserveStoreDuration(metrics.OpConnect, time.Since(start))
	if err != nil {
		s.metrics.IncStorageError(metrics.OpConnect)
		return storageError(err)
	}
	return nil
}

// ListUsers returns up to MaxListUsers records, newest first. The result is
// never nil.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	start := time.Now()
	users, err := s.store.ListUsers(ctx, MaxListUsers)
	s.metrics.ObserveStoreDuration(metrics.OpListUsers, time.Since(start))
	if err != nil {
		s.metrics.IncStorageError(metrics.OpListUsers)
		return nil, storageError(err)
	}

	if users == nil {
		users = []model.User{}
	}
	if len(users) > MaxListUsers {
		users = users[:MaxListUsers]
	}
	return users, nil
}

// CreateUser validates input and persists a new record. No storage access
// happens when validation fails. Duplicate emails are allowed.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := input.Validate(); err != nil {
		s.metrics.IncValidationRejected()
		return nil, err
	}

	user := &model.User{
		Name:  *input.Name,
		Email: *input.Email,
	}

	start := time.Now()
	err := s.store.CreateUser(ctx, user)
	s.metrics.ObserveStoreDuration(metrics.OpCreateUser, time.Since(start))
	if err != nil {
		s.metrics.IncStorageError(metrics.OpCreateUser)
		return nil, storageError(err)
	}

	s.metrics.IncUserCreated()
	return user, nil
}

// storageError makes every store failure match ErrStorageUnavailable,
// including ErrNotInitialized.
func storageError(err error) error {
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
