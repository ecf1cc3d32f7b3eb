package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"neon-portal/internal/domain"
)

func TestDocumentUserRepository_CreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDocumentStore()
	repo := NewDocumentUserRepository(store)
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	created, err := repo.Create(ctx, domain.User{Name: "Ann", Age: 30, Email: "ann@x.com", PasswordHash: "$2a$10$hash"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id from store")
	}

	found, err := repo.FindByEmail(ctx, "ann@x.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != created {
		t.Fatalf("expected %+v, got %+v", created, found)
	}

	if err := repo.UpdateProfile(ctx, created.ID, "Annie", 31); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, _ = repo.FindByEmail(ctx, "ann@x.com")
	if found.Name != "Annie" || found.Age != 31 || found.PasswordHash != "$2a$10$hash" {
		t.Fatalf("unexpected user after update: %+v", found)
	}
}

func TestDocumentUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentUserRepository(NewMemoryDocumentStore())
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	user := domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"}
	if _, err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, user); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestDocumentUserRepository_NotFound(t *testing.T) {
	repo := NewDocumentUserRepository(NewMemoryDocumentStore())
	if _, err := repo.FindByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserFromDocumentNumericAges(t *testing.T) {
	cases := []any{int32(30), int64(30), float64(30), json.Number("30"), "30", 30}
	for _, age := range cases {
		user := userFromDocument(Document{ID: "id", Fields: map[string]any{"age": age}})
		if user.Age != 30 {
			t.Errorf("age %T(%v) decoded as %d", age, age, user.Age)
		}
	}
	if got := userFromDocument(Document{Fields: map[string]any{}}); got.Age != 0 || got.Name != "" {
		t.Errorf("missing fields should be zero values, got %+v", got)
	}
}
