package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"neon-portal/internal/localstore"
)

// Registry guarda los clientes vivos del proceso. El primer acceso de un
// cliente despues de arrancar corre Bootstrap contra su storage.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
	storage localstore.Store
	logger  *zap.Logger
	now     func() time.Time
}

func NewRegistry(storage localstore.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		clients: make(map[string]*Client),
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Client devuelve la instancia del cliente, creandola si hace falta. Si el
// storage falla, el cliente anonimo no se guarda y el proximo request vuelve a
// intentar el Bootstrap.
func (r *Registry) Client(ctx context.Context, clientID string) *Client {
	r.mu.Lock()
	c, ok := r.clients[clientID]
	r.mu.Unlock()
	if ok {
		c.touch(r.now())
		return c
	}

	scoped := localstore.Scoped(r.storage, clientID)
	state, err := Bootstrap(context.WithoutCancel(ctx), scoped)
	if err != nil {
		if !errors.Is(err, ErrCorruptRecord) {
			r.logger.Error("session bootstrap failed", zap.String("client_id", clientID), zap.Error(err))
			return newClient(clientID, scoped, Anonymous{}, r.logger, r.now())
		}
		r.logger.Warn("discarding corrupt session record", zap.String("client_id", clientID), zap.Error(err))
	}
	fresh := newClient(clientID, scoped, state, r.logger, r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.clients[clientID]; ok {
		existing.touch(r.now())
		return existing
	}
	r.clients[clientID] = fresh
	return fresh
}

// Len devuelve la cantidad de clientes en memoria.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Sweep olvida clientes inactivos. Su sesion sigue en el registro persistido
// y vuelve con el proximo Bootstrap.
func (r *Registry) Sweep(idle time.Duration) int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, c := range r.clients {
		if c.idleSince(now) >= idle {
			delete(r.clients, id)
			removed++
		}
	}
	return removed
}

// RunSweeper llama a Sweep cada interval hasta que ctx termine.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.logger.Debug("swept idle clients", zap.Int("count", n))
			}
		}
	}
}
