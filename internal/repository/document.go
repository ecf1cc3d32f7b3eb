package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Document es un registro del store: id opaco mas sus campos.
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStore es el contrato minimo que la app necesita del store externo.
// Cada backend garantiza lectura y escritura atomica de un documento.
type DocumentStore interface {
	FindOne(ctx context.Context, collection, field string, value any) (Document, error)
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error
	EnsureUnique(ctx context.Context, collection, field string) error
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// intField tolera las representaciones numericas de cada driver
// (int32/int64 en bson, float64 en jsonb).
func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}
