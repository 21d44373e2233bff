package service

import (
	"context"
	"testing"

	"etfolio/internal/apperr"
)

func TestUserFindOrCreate_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.FindOrCreate(ctx, "anna@example.com", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Name != "anna@example.com" {
		t.Fatalf("name=%q want email fallback", u.Name)
	}
	if u.Provider != "local" {
		t.Fatalf("provider=%q want local", u.Provider)
	}

	again, err := env.users.FindOrCreate(ctx, "anna@example.com", "google", "Anna")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if again.ID != u.ID {
		t.Fatalf("second call created a new user: %d vs %d", again.ID, u.ID)
	}
	if again.Provider != "local" {
		t.Fatalf("existing record overwritten: provider=%q", again.Provider)
	}
}

func TestUserCurrent_Missing(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Current(context.Background(), "ghost@example.com")
	if !apperr.IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}
