package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"neon-portal/internal/game"
)

const (
	gameWriteWait    = 2 * time.Second
	gameMaxEventSize = 512
)

// GameHandler transmite el platformer por websocket: frames hacia el navegador,
// teclas desde el navegador.
type GameHandler struct {
	logger    *zap.Logger
	frameRate int
	upgrader  websocket.Upgrader
}

func NewGameHandler(logger *zap.Logger, frameRate int) *GameHandler {
	return &GameHandler{
		logger:    logger,
		frameRate: frameRate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Play maneja GET /dashboard/game. Cada conexion monta su propio loop y lo
// desmonta al cerrarse.
func (h *GameHandler) Play(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("game upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	bus := game.NewInputBus()
	mounted := game.Mount(ctx, bus, func(frame game.Frame) error {
		if err := conn.SetWriteDeadline(time.Now().Add(gameWriteWait)); err != nil {
			return err
		}
		return conn.WriteJSON(frame)
	}, h.frameRate)
	defer mounted.Unmount()

	// Si el loop termina por su cuenta, cerrar la conexion desbloquea la lectura.
	go func() {
		<-mounted.Done()
		conn.Close()
	}()

	conn.SetReadLimit(gameMaxEventSize)
	for {
		var ev game.KeyEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("game connection closed", zap.Error(err))
			}
			break
		}
		bus.Publish(ev)
	}

	mounted.Unmount()
	if err := mounted.Err(); err != nil {
		h.logger.Debug("game loop stopped", zap.Error(err))
	}
}
