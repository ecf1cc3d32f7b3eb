package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"neon-portal/internal/domain"
	"neon-portal/internal/localstore"
	"neon-portal/internal/service"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Authenticator es lo que el cliente necesita del UserService.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	UpdateProfile(ctx context.Context, current domain.Session, input service.ProfileInput) (domain.Session, error)
}

// Client es una instancia de cliente: una sesion en memoria mas su storage durable.
// Cada flujo toma el mutex y corre completo antes del siguiente.
type Client struct {
	mu       sync.Mutex
	id       string
	storage  localstore.Store
	state    State
	logger   *zap.Logger
	lastSeen atomic.Int64
}

func newClient(id string, storage localstore.Store, state State, logger *zap.Logger, now time.Time) *Client {
	c := &Client{
		id:      id,
		storage: storage,
		state:   state,
		logger:  logger.With(zap.String("client_id", id)),
	}
	c.touch(now)
	return c
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Login autentica, instala la sesion y la persiste.
func (c *Client) Login(ctx context.Context, auth Authenticator, email, password string) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := auth.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	c.install(ctx, sess)
	return sess, nil
}

// UpdateProfile reemplaza sesion y copia persistida solo si el store acepto el cambio.
func (c *Client) UpdateProfile(ctx context.Context, auth Authenticator, input service.ProfileInput) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := Current(c.state)
	if !ok {
		return domain.Session{}, ErrNotAuthenticated
	}
	updated, err := auth.UpdateProfile(ctx, current, input)
	if err != nil {
		return domain.Session{}, err
	}
	c.install(ctx, updated)
	return updated, nil
}

// Logout limpia la sesion y borra el registro persistido. Es incondicional.
func (c *Client) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Anonymous{}
	if err := c.storage.Remove(ctx, RecordKey); err != nil {
		c.logger.Warn("remove session record failed", zap.Error(err))
	}
}

// install no falla si la persistencia falla: la sesion vale para este proceso
// pero no sobrevive un reinicio.
func (c *Client) install(ctx context.Context, sess domain.Session) {
	c.state = Authenticated{Session: sess}
	raw, err := EncodeRecord(sess)
	if err != nil {
		c.logger.Error("encode session record failed", zap.Error(err))
		return
	}
	if err := c.storage.Set(ctx, RecordKey, raw); err != nil {
		c.logger.Warn("persist session record failed", zap.Error(err))
	}
}

func (c *Client) touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

func (c *Client) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, c.lastSeen.Load()))
}
