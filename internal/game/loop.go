package game

import (
	"context"
	"sync"
	"time"
)

const DefaultFrameRate = 60

// FrameSink recibe cada frame renderizado. Un error termina el loop.
type FrameSink func(Frame) error

// Mounted es un juego en marcha. Unmount lo detiene y espera a que termine.
type Mounted struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// Mount crea un mundo nuevo, registra el teclado en bus y arranca el loop de frames.
// El listener se quita y el ticker se detiene en cualquier salida: Unmount,
// cancelacion de ctx o error del sink.
func Mount(ctx context.Context, bus *InputBus, sink FrameSink, frameRate int) *Mounted {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	ctx, cancel := context.WithCancel(ctx)

	keyboard := NewKeyboard()
	unsubscribe := bus.Subscribe(keyboard.Handle)
	world := NewWorld()

	m := &Mounted{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(m.done)
		defer cancel()
		defer unsubscribe()
		m.err = run(ctx, world, keyboard, sink, time.Second/time.Duration(frameRate))
	}()
	return m
}

func run(ctx context.Context, world *World, keyboard *Keyboard, sink FrameSink, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seq uint64
	for {
		if ctx.Err() != nil {
			return nil
		}
		world.Step(keyboard.Keys())
		seq++
		if err := sink(Frame{Seq: seq, Player: world.Player, Commands: world.Render()}); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Unmount es idempotente y no vuelve hasta que el loop termino.
func (m *Mounted) Unmount() {
	m.once.Do(m.cancel)
	<-m.done
}

func (m *Mounted) Done() <-chan struct{} {
	return m.done
}

// Err devuelve el error del sink que termino el loop, si lo hubo. Valido despues de Done.
func (m *Mounted) Err() error {
	<-m.done
	return m.err
}
