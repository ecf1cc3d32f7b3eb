package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryCollection struct {
	order  []string
	docs   map[string]map[string]any
	unique map[string]struct{}
}

// MemoryDocumentStore implementa DocumentStore en memoria (desarrollo y tests).
type MemoryDocumentStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryDocumentStore) collection(name string) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{
			docs:   make(map[string]map[string]any),
			unique: make(map[string]struct{}),
		}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryDocumentStore) FindOne(ctx context.Context, collection, field string, value any) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	for _, id := range c.order {
		doc := c.docs[id]
		if v, ok := doc[field]; ok && v == value {
			return Document{ID: id, Fields: copyFields(doc)}, nil
		}
	}
	return Document{}, ErrNotFound
}

func (s *MemoryDocumentStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if c.violatesUnique("", fields) {
		return "", ErrDuplicateKey
	}
	id := uuid.NewString()
	c.order = append(c.order, id)
	c.docs[id] = copyFields(fields)
	return id, nil
}

func (s *MemoryDocumentStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	doc, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	merged := copyFields(doc)
	for k, v := range fields {
		merged[k] = v
	}
	if c.violatesUnique(id, merged) {
		return ErrDuplicateKey
	}
	c.docs[id] = merged
	return nil
}

func (s *MemoryDocumentStore) EnsureUnique(_ context.Context, collection, field string) error {
	if err := validIdentifier(field); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection).unique[field] = struct{}{}
	return nil
}

// Len devuelve la cantidad de documentos de una coleccion.
func (s *MemoryDocumentStore) Len(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collection(collection).order)
}

func (c *memoryCollection) violatesUnique(selfID string, fields map[string]any) bool {
	for field := range c.unique {
		v, ok := fields[field]
		if !ok {
			continue
		}
		for id, doc := range c.docs {
			if id != selfID && doc[field] == v {
				return true
			}
		}
	}
	return false
}
