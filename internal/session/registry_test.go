package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"neon-portal/internal/localstore"
)

func TestRegistry_ReturnsSameClient(t *testing.T) {
	reg := NewRegistry(localstore.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	a := reg.Client(ctx, "c1")
	b := reg.Client(ctx, "c1")
	if a != b {
		t.Fatalf("expected the same client instance")
	}
	if reg.Client(ctx, "c2") == a {
		t.Fatalf("different ids must get different clients")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 clients, got %d", reg.Len())
	}
}

func TestRegistry_ConcurrentFirstAccess(t *testing.T) {
	reg := NewRegistry(localstore.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	clients := make([]*Client, 16)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients[i] = reg.Client(ctx, "c1")
		}(i)
	}
	wg.Wait()
	for _, c := range clients[1:] {
		if c != clients[0] {
			t.Fatalf("concurrent access produced distinct clients")
		}
	}
}

func TestRegistry_BootstrapsFromPersistedRecord(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemoryStore()

	first := NewRegistry(storage, zap.NewNop())
	if _, err := first.Client(ctx, "c1").Login(ctx, &mockAuthenticator{session: annSession()}, "ann@x.com", "Secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Un registro nuevo sobre el mismo storage equivale a reiniciar el proceso.
	restarted := NewRegistry(storage, zap.NewNop())
	sess, ok := Current(restarted.Client(ctx, "c1").State())
	if !ok || sess.ID != "u1" || sess.Email != "ann@x.com" {
		t.Fatalf("expected session restored, got %+v ok=%v", sess, ok)
	}
	if _, ok := restarted.Client(ctx, "c2").State().(Anonymous); !ok {
		t.Fatalf("other clients must stay anonymous")
	}
}

func TestRegistry_CorruptRecordStartsAnonymous(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemoryStore()
	_ = storage.Set(ctx, "c1:"+RecordKey, "{oops")

	reg := NewRegistry(storage, zap.NewNop())
	if _, ok := reg.Client(ctx, "c1").State().(Anonymous); !ok {
		t.Fatalf("expected Anonymous for corrupt record")
	}
}

func TestRegistry_Sweep(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemoryStore()
	reg := NewRegistry(storage, zap.NewNop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	if _, err := reg.Client(ctx, "idle").Login(ctx, &mockAuthenticator{session: annSession()}, "ann@x.com", "Secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	now = now.Add(30 * time.Minute)
	reg.Client(ctx, "active")
	now = now.Add(31 * time.Minute)

	if n := reg.Sweep(time.Hour); n != 1 {
		t.Fatalf("expected 1 client swept, got %d", n)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 client left, got %d", reg.Len())
	}

	// El cliente barrido vuelve autenticado desde su registro.
	if _, ok := Current(reg.Client(ctx, "idle").State()); !ok {
		t.Fatalf("swept client should bootstrap its session again")
	}
}

func TestRegistry_RunSweeperStopsWithContext(t *testing.T) {
	reg := NewRegistry(localstore.NewMemoryStore(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.RunSweeper(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop")
	}
}

// flakyStore falla los primeros Get y despues delega.
type flakyStore struct {
	localstore.Store
	mu       sync.Mutex
	failures int
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return "", false, errors.New("i/o timeout")
	}
	f.mu.Unlock()
	return f.Store.Get(ctx, key)
}

func TestRegistry_StorageFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := localstore.NewMemoryStore()
	raw, _ := EncodeRecord(annSession())
	_ = inner.Set(ctx, "c1:"+RecordKey, raw)
	storage := &flakyStore{Store: inner, failures: 1}

	reg := NewRegistry(storage, zap.NewNop())
	if _, ok := reg.Client(ctx, "c1").State().(Anonymous); !ok {
		t.Fatalf("expected Anonymous while storage is failing")
	}
	if reg.Len() != 0 {
		t.Fatalf("a client that failed to bootstrap must not be cached, got %d", reg.Len())
	}

	sess, ok := Current(reg.Client(ctx, "c1").State())
	if !ok || sess.ID != "u1" {
		t.Fatalf("expected session once storage recovers, got %+v ok=%v", sess, ok)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected the recovered client to be cached, got %d", reg.Len())
	}
}

// ctxStore falla como un driver real cuando el contexto ya termino.
type ctxStore struct {
	localstore.Store
}

func (c ctxStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return c.Store.Get(ctx, key)
}

func TestRegistry_CanceledRequestStillBootstraps(t *testing.T) {
	inner := localstore.NewMemoryStore()
	raw, _ := EncodeRecord(annSession())
	_ = inner.Set(context.Background(), "c1:"+RecordKey, raw)

	reg := NewRegistry(ctxStore{Store: inner}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := Current(reg.Client(ctx, "c1").State()); !ok {
		t.Fatalf("a disconnected request must not read as a missing session")
	}
}
