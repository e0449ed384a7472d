package handler

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// gin's validator reads "binding" tags, so go through its engine rather than
// a fresh validator.New().
func validate(t *testing.T, req CreateUserRequest) error {
	t.Helper()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("unexpected validator engine")
	}
	return v.Struct(req)
}

func TestViolationsAreCollectedNotShortCircuited(t *testing.T) {
	err := validate(t, CreateUserRequest{})
	if err == nil {
		t.Fatal("empty request should fail validation")
	}

	msgs := bindingViolations(err)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want exactly one per missing field", msgs)
	}
	if msgs[0] != "Name is required" || msgs[1] != "Email is required" {
		t.Errorf("unexpected messages: %v", msgs)
	}
}

func TestViolationMessagesMatchRules(t *testing.T) {
	err := validate(t, CreateUserRequest{Name: "A", Email: "not-an-email"})
	if err == nil {
		t.Fatal("request should fail validation")
	}

	msgs := bindingViolations(err)
	want := []string{
		"Name must be at least 2 characters long",
		"Email must be a valid email address",
	}
	if len(msgs) != len(want) {
		t.Fatalf("messages = %v, want %v", msgs, want)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, msgs[i], want[i])
		}
	}
}

func TestValidRequestPasses(t *testing.T) {
	if err := validate(t, CreateUserRequest{Name: "John Doe", Email: "john@example.com"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}
