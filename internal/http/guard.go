package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neon-portal/internal/domain"
	"neon-portal/internal/session"
)

const sessionKey = "current_session"

// RequireSession deja pasar solo a clientes autenticados; el resto va a "/".
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var state session.State = session.Anonymous{}
		if client, ok := GetClient(c); ok {
			state = client.State()
		}

		switch s := state.(type) {
		case session.Authenticated:
			c.Set(sessionKey, s.Session)
			c.Next()
		case session.Anonymous:
			redirectToLogin(c)
		default:
			redirectToLogin(c)
		}
	}
}

func redirectToLogin(c *gin.Context) {
	if wantsJSON(c) {
		c.Header("Location", "/")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}

// GetSession obtiene la sesion que RequireSession dejo en el contexto.
func GetSession(c *gin.Context) (domain.Session, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	sess, ok := val.(domain.Session)
	return sess, ok
}
