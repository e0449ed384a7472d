package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"usersvc/internal/app"
	"usersvc/internal/model"
	"usersvc/internal/repository"
)

type capturingPublisher struct {
	events []app.UserCreatedEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event app.UserCreatedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService(t *testing.T) (*app.UserService, *capturingPublisher) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	publisher := &capturingPublisher{}
	return app.NewUserService(repository.NewUserRepository(db), publisher), publisher
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	svc, publisher := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, app.CreateUserInput{Name: "John Doe", Email: "john@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if user.ID != 1 {
		t.Errorf("id = %d, want 1", user.ID)
	}
	if user.Name != "John Doe" || user.Email != "john@example.com" {
		t.Errorf("unexpected projection: %+v", user)
	}
	if user.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}

	if len(publisher.events) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.events))
	}
	if publisher.events[0].Action != app.ActionUserCreated || publisher.events[0].UserID != user.ID {
		t.Errorf("unexpected event: %+v", publisher.events[0])
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc, publisher := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, app.CreateUserInput{Name: "John Doe", Email: "john@example.com"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(ctx, app.CreateUserInput{Name: "Other", Email: "john@example.com"})
	var conflict *app.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if got, want := conflict.Error(), "User with email john@example.com already exists"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("stored %d users after conflict, want 1", len(users))
	}
	if len(publisher.events) != 1 {
		t.Errorf("published %d events, want 1 (none for the conflict)", len(publisher.events))
	}
}

func TestCreateEmailComparisonIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, app.CreateUserInput{Name: "John Doe", Email: "john@example.com"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(ctx, app.CreateUserInput{Name: "John Doe", Email: "JOHN@Example.COM"})
	var conflict *app.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError for differently-cased email", err)
	}
}

func TestCreateStoresEmailLowercase(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Create(context.Background(), app.CreateUserInput{Name: "Jane", Email: "Jane@Example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Errorf("email = %q, want lowercase", user.Email)
	}
}

func TestListEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if users == nil {
		t.Fatal("list returned nil, want empty slice")
	}
	if len(users) != 0 {
		t.Errorf("len = %d, want 0", len(users))
	}
}

func TestListIsIdempotentAndOrdered(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := svc.Create(ctx, app.CreateUserInput{Name: "User", Email: email}); err != nil {
			t.Fatalf("create %s failed: %v", email, err)
		}
	}

	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("first list failed: %v", err)
	}
	second, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("lengths = %d/%d, want 3/3", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("list not idempotent at %d: %+v vs %+v", i, first[i], second[i])
		}
		if first[i].ID != uint(i+1) {
			t.Errorf("position %d has id %d, want insertion order", i, first[i].ID)
		}
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	svc := app.NewUserService(repository.NewUserRepository(db), nil)
	if _, err := svc.Create(context.Background(), app.CreateUserInput{Name: "John", Email: "john@example.com"}); err != nil {
		t.Fatalf("create without publisher failed: %v", err)
	}
}
