package localstore

import "context"

// Store es el almacenamiento durable clave/valor del lado del cliente.
// Get devuelve ok=false cuando la clave no existe.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type scopedStore struct {
	inner  Store
	prefix string
}

// Scoped devuelve una vista de store cuyas claves quedan aisladas por cliente.
func Scoped(inner Store, clientID string) Store {
	return &scopedStore{inner: inner, prefix: clientID + ":"}
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
