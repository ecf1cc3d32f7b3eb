package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas del portal.
func NewRouter(
	logger *zap.Logger,
	clients *ClientResolver,
	authH *AuthHandler,
	profileH *ProfileHandler,
	gameH *GameHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging y recovery.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/password-strength", authH.PasswordStrength)

	// Todo lo demas depende de la instancia de cliente.
	app := r.Group("/", clients.Middleware())
	app.GET("/", authH.LoginPage)
	app.POST("/", authH.Login)
	app.GET("/signup", authH.SignupPage)
	app.POST("/signup", authH.Signup)
	app.POST("/logout", authH.Logout)

	protected := app.Group("/", RequireSession())
	protected.GET("/dashboard", authH.Dashboard)
	protected.GET("/dashboard/game", gameH.Play)
	protected.GET("/edit-profile", profileH.EditPage)
	protected.POST("/edit-profile", profileH.Update)
	protected.GET("/api/session", authH.SessionInfo)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request", fields...)
	}
}
