package game

import "sync"

// Nombres de tecla del DOM (KeyboardEvent.key).
const (
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
	KeyJump  = " "
)

const (
	EventKeyDown = "keydown"
	EventKeyUp   = "keyup"
)

type KeyEvent struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// Keyboard recuerda que teclas del juego estan presionadas. Cualquier otra
// tecla se ignora.
type Keyboard struct {
	mu   sync.Mutex
	keys Keys
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Handle(ev KeyEvent) {
	var down bool
	switch ev.Type {
	case EventKeyDown:
		down = true
	case EventKeyUp:
	default:
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	switch ev.Key {
	case KeyLeft:
		k.keys.Left = down
	case KeyRight:
		k.keys.Right = down
	case KeyJump:
		k.keys.Jump = down
	}
}

func (k *Keyboard) Keys() Keys {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys
}

type Listener func(KeyEvent)

// InputBus reparte eventos de teclado a los listeners registrados.
type InputBus struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

func NewInputBus() *InputBus {
	return &InputBus{listeners: make(map[int]Listener)}
}

// Subscribe registra l y devuelve la funcion que lo quita. Llamarla dos veces no hace nada.
func (b *InputBus) Subscribe(l Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

func (b *InputBus) Publish(ev KeyEvent) {
	b.mu.Lock()
	ls := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		ls = append(ls, l)
	}
	b.mu.Unlock()

	for _, l := range ls {
		l(ev)
	}
}

func (b *InputBus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
