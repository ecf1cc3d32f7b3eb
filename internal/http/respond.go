package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"neon-portal/internal/service"
	"neon-portal/internal/session"
)

// wantsJSON: cuerpo JSON, ruta /api o Accept que prefiere JSON.
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	if c.ContentType() == gin.MIMEJSON {
		return true
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func render(c *gin.Context, status int, page templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := page.Render(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondFlowError responde JSON o vuelve a mostrar la pagina con el mensaje.
func respondFlowError(c *gin.Context, err error, page func(msg string) templ.Component) {
	status := errorStatus(err)
	msg := service.UserMessage(err)
	if errors.Is(err, session.ErrNotAuthenticated) {
		redirectToLogin(c)
		return
	}
	if wantsJSON(c) {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	render(c, status, page(msg))
}

func respondInvalidRequest(c *gin.Context, page func(msg string) templ.Component) {
	if wantsJSON(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	render(c, http.StatusBadRequest, page("Invalid request."))
}
