package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neon-portal/internal/service"
	"neon-portal/internal/session"
)

const (
	clientCookieName = "client"
	clientCookieAge  = 10 * 365 * 24 * 60 * 60
	clientKey        = "client_instance"
)

// ClientResolver asocia cada request con su instancia de cliente via cookie firmada.
type ClientResolver struct {
	logger   *zap.Logger
	tokens   *service.ClientTokenService
	registry *session.Registry
	secure   bool
}

func NewClientResolver(logger *zap.Logger, tokens *service.ClientTokenService, registry *session.Registry, secure bool) *ClientResolver {
	return &ClientResolver{
		logger:   logger,
		tokens:   tokens,
		registry: registry,
		secure:   secure,
	}
}

// Middleware resuelve el cliente; un cookie ausente o invalido inicia un cliente nuevo.
func (r *ClientResolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := ""
		if raw, err := c.Cookie(clientCookieName); err == nil {
			if id, err := r.tokens.Parse(raw); err == nil {
				clientID = id
			}
		}
		if clientID == "" {
			id, token, err := r.tokens.Issue()
			if err != nil {
				r.logger.Error("issue client token failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not identify client"})
				return
			}
			clientID = id
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(clientCookieName, token, clientCookieAge, "/", "", r.secure, true)
		}

		c.Set(clientKey, r.registry.Client(c.Request.Context(), clientID))
		c.Next()
	}
}

// GetClient obtiene la instancia de cliente guardada por el middleware.
func GetClient(c *gin.Context) (*session.Client, bool) {
	val, ok := c.Get(clientKey)
	if !ok {
		return nil, false
	}
	client, ok := val.(*session.Client)
	return client, ok
}
