package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createDocumentsTable = `
	CREATE TABLE IF NOT EXISTS documents (
		id          UUID PRIMARY KEY,
		collection  TEXT NOT NULL,
		fields      JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

const pgUniqueViolation = "23505"

// PgDocumentStore guarda documentos como JSONB en una tabla unica de Postgres.
type PgDocumentStore struct {
	pool *pgxpool.Pool
}

func NewPgDocumentStore(pool *pgxpool.Pool) *PgDocumentStore {
	return &PgDocumentStore{pool: pool}
}

// Migrate crea la tabla de documentos si no existe.
func (s *PgDocumentStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func (s *PgDocumentStore) FindOne(ctx context.Context, collection, field string, value any) (Document, error) {
	const query = `
		SELECT id::text, fields
		FROM documents
		WHERE collection = $1 AND fields->>$2 = $3
		ORDER BY created_at
		LIMIT 1
	`
	var doc Document
	err := s.pool.QueryRow(ctx, query, collection, field, fmt.Sprint(value)).Scan(&doc.ID, &doc.Fields)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("find %s by %s: %w", collection, field, err)
	}
	return doc, nil
}

func (s *PgDocumentStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	const query = `
		INSERT INTO documents (id, collection, fields)
		VALUES ($1, $2, $3)
	`
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, query, id, collection, fields); err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateKey
		}
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (s *PgDocumentStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	const query = `
		UPDATE documents
		SET fields = fields || $3
		WHERE collection = $1 AND id = $2
	`
	docID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, query, collection, docID.String(), fields)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("update %s %s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgDocumentStore) EnsureUnique(ctx context.Context, collection, field string) error {
	stmt, err := uniqueIndexStatement(collection, field)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create unique index %s.%s: %w", collection, field, err)
	}
	return nil
}

// uniqueIndexStatement arma el indice parcial por coleccion. Los nombres se
// validan antes de interpolarse porque DDL no acepta parametros.
func uniqueIndexStatement(collection, field string) (string, error) {
	if err := validIdentifier(collection); err != nil {
		return "", err
	}
	if err := validIdentifier(field); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS documents_%s_%s_key ON documents ((fields->>'%s')) WHERE collection = '%s'",
		collection, field, field, collection,
	), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
