// Package game implementa el platformer del dashboard: un paso de fisica por frame.
package game

const (
	CanvasWidth  = 600
	CanvasHeight = 400
	groundBand   = 50

	Gravity      = 0.5
	Friction     = 0.9
	MoveSpeed    = 5
	JumpVelocity = -12

	bodySize = 32
	startX   = 50
)

// Body es la entidad del jugador. Se crea de nuevo en cada montaje.
type Body struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	OnGround bool    `json:"onGround"`
}

// Keys es el estado de las teclas muestreado al inicio de cada frame.
type Keys struct {
	Left  bool
	Right bool
	Jump  bool
}

type World struct {
	Width   float64
	Height  float64
	GroundY float64
	Player  Body
}

func NewWorld() *World {
	return &World{
		Width:   CanvasWidth,
		Height:  CanvasHeight,
		GroundY: CanvasHeight - groundBand,
		Player: Body{
			X:      startX,
			Width:  bodySize,
			Height: bodySize,
		},
	}
}

// Step avanza un frame. El orden importa: controles, gravedad, posicion,
// friccion, suelo y por ultimo los bordes.
func (w *World) Step(keys Keys) {
	p := &w.Player

	// Si se mantienen ambas direcciones gana la derecha.
	if keys.Left {
		p.VX = -MoveSpeed
	}
	if keys.Right {
		p.VX = MoveSpeed
	}
	if keys.Jump && p.OnGround {
		p.VY = JumpVelocity
		p.OnGround = false
	}

	p.VY += Gravity
	p.X += p.VX
	p.Y += p.VY
	p.VX *= Friction

	if p.Y+p.Height > w.GroundY {
		p.Y = w.GroundY - p.Height
		p.VY = 0
		p.OnGround = true
	}

	if p.X < 0 {
		p.X = 0
	}
	if p.X+p.Width > w.Width {
		p.X = w.Width - p.Width
	}
}
