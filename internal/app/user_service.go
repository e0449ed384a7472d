package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"usersvc/internal/model"
	"usersvc/internal/repository"
)

// ConflictError reports an attempt to create a user with an email that is
// already taken. Its message is part of the public API.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("User with email %s already exists", e.Email)
}

const ActionUserCreated = "user.created"

// UserCreatedEvent is published to the event queue after a successful create.
type UserCreatedEvent struct {
	Action     string    `json:"action"`
	UserID     uint      `json:"userId"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher pushes user events to the message broker. Publishing is
// best-effort: a failure is logged and never fails the originating request.
type EventPublisher interface {
	Publish(ctx context.Context, event UserCreatedEvent) error
}

type CreateUserInput struct {
	Name  string
	Email string
}

// UserResponse is the external projection of a user record. Nothing beyond
// these four fields may leak out.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserService struct {
	userRepo  *repository.UserRepository
	publisher EventPublisher
}

func NewUserService(userRepo *repository.UserRepository, publisher EventPublisher) *UserService {
	return &UserService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Create persists a new user unless the email is already taken. Email
// comparison is case-insensitive: the address is lowercased before both the
// existence check and the insert, so the unique index only ever sees
// lowercase values.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Email: email}
	}

	user := &model.User{
		Name:  input.Name,
		Email: email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index closes the check-then-insert race: a concurrent
		// create with the same email still surfaces as a conflict.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, &ConflictError{Email: email}
		}
		return nil, err
	}

	s.publishCreated(ctx, user)

	resp := toResponse(user)
	return &resp, nil
}

// List returns every stored user in insertion order. An empty store yields
// an empty slice, never nil.
func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toResponse(&users[i]))
	}
	return responses, nil
}

func (s *UserService) publishCreated(ctx context.Context, user *model.User) {
	if s.publisher == nil {
		return
	}
	event := UserCreatedEvent{
		Action:     ActionUserCreated,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish %s event failed: %v", ActionUserCreated, err)
	}
}

func toResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
