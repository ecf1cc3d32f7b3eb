package game

const (
	groundColor  = "#00ffff"
	playerColor  = "#ff00ff"
	textColor    = "#fff"
	textFont     = "16px sans-serif"
	instructions = "Left/Right: Move | Space: Jump"
)

// DrawCommand es una operacion de canvas 2D que el navegador ejecuta tal cual.
type DrawCommand struct {
	Op   string  `json:"op"`
	Fill string  `json:"fill,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w,omitempty"`
	H    float64 `json:"h,omitempty"`
	Text string  `json:"text,omitempty"`
	Font string  `json:"font,omitempty"`
}

const (
	OpClear    = "clear"
	OpFillRect = "fillRect"
	OpFillText = "fillText"
)

type Frame struct {
	Seq      uint64        `json:"seq"`
	Player   Body          `json:"player"`
	Commands []DrawCommand `json:"commands"`
}

// Render limpia y dibuja suelo, jugador e instrucciones, en ese orden.
func (w *World) Render() []DrawCommand {
	p := w.Player
	return []DrawCommand{
		{Op: OpClear, X: 0, Y: 0, W: w.Width, H: w.Height},
		{Op: OpFillRect, Fill: groundColor, X: 0, Y: w.GroundY, W: w.Width, H: w.Height - w.GroundY},
		{Op: OpFillRect, Fill: playerColor, X: p.X, Y: p.Y, W: p.Width, H: p.Height},
		{Op: OpFillText, Fill: textColor, X: 10, Y: 20, Text: instructions, Font: textFont},
	}
}
