package repository

import (
	"context"
	"errors"
	"fmt"

	"neon-portal/internal/domain"
)

const usersCollection = "users"

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdateProfile(ctx context.Context, id, name string, age int) error
}

// DocumentUserRepository implementa UserRepository sobre cualquier DocumentStore.
type DocumentUserRepository struct {
	store DocumentStore
}

func NewDocumentUserRepository(store DocumentStore) *DocumentUserRepository {
	return &DocumentUserRepository{store: store}
}

// EnsureIndexes declara el email como unico en el store.
func (r *DocumentUserRepository) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureUnique(ctx, usersCollection, "email")
}

func (r *DocumentUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	doc, err := r.store.FindOne(ctx, usersCollection, "email", email)
	if err != nil {
		return domain.User{}, err
	}
	return userFromDocument(doc), nil
}

func (r *DocumentUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	id, err := r.store.Insert(ctx, usersCollection, map[string]any{
		"name":     user.Name,
		"age":      user.Age,
		"email":    user.Email,
		"password": user.PasswordHash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return user, nil
}

func (r *DocumentUserRepository) UpdateProfile(ctx context.Context, id, name string, age int) error {
	return r.store.UpdateFields(ctx, usersCollection, id, map[string]any{
		"name": name,
		"age":  age,
	})
}

func userFromDocument(doc Document) domain.User {
	return domain.User{
		ID:           doc.ID,
		Name:         stringField(doc.Fields, "name"),
		Age:          intField(doc.Fields, "age"),
		Email:        stringField(doc.Fields, "email"),
		PasswordHash: stringField(doc.Fields, "password"),
	}
}
