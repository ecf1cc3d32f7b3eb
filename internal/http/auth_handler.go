package http

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neon-portal/internal/domain"
	"neon-portal/internal/service"
)

const (
	noticeSignup  = "signup"
	noticeProfile = "profile"

	signupSuccessMessage  = "Signup successful! Please login."
	profileSuccessMessage = "Profile updated successfully!"
)

// AuthHandler atiende login, registro, logout y los endpoints /api de sesion.
type AuthHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewAuthHandler(logger *zap.Logger, userServ *service.UserService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// LoginPage maneja GET /.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	view := LoginView{}
	if c.Query("notice") == noticeSignup {
		view.Notice = signupSuccessMessage
	}
	render(c, http.StatusOK, LoginPage(view))
}

// Login maneja POST /.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password"`
	}
	page := func(msg string) templ.Component {
		return LoginPage(LoginView{Email: req.Email, Error: msg})
	}
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		respondInvalidRequest(c, page)
		return
	}

	client, ok := GetClient(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client not resolved"})
		return
	}
	sess, err := client.Login(c.Request.Context(), h.userServ, req.Email, req.Password)
	if err != nil {
		respondFlowError(c, err, page)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"session": publicSession(sess)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// SignupPage maneja GET /signup.
func (h *AuthHandler) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, SignupPage(SignupView{}))
}

// Signup maneja POST /signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name            string `form:"name" json:"name"`
		Age             int    `form:"age" json:"age"`
		Email           string `form:"email" json:"email"`
		Password        string `form:"password" json:"password"`
		ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
	}
	page := func(msg string) templ.Component {
		view := SignupView{Name: req.Name, Email: req.Email, Error: msg}
		if req.Age != 0 {
			view.Age = strconv.Itoa(req.Age)
		}
		return SignupPage(view)
	}
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		respondInvalidRequest(c, page)
		return
	}

	user, err := h.userServ.Signup(c.Request.Context(), service.SignupInput{
		Name:            req.Name,
		Age:             req.Age,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondFlowError(c, err, page)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, gin.H{"user": user, "message": signupSuccessMessage})
		return
	}
	c.Redirect(http.StatusSeeOther, "/?notice="+noticeSignup)
}

// Logout maneja POST /logout. Siempre termina en "/".
func (h *AuthHandler) Logout(c *gin.Context) {
	if client, ok := GetClient(c); ok {
		client.Logout(c.Request.Context())
	}
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Dashboard maneja GET /dashboard.
func (h *AuthHandler) Dashboard(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		redirectToLogin(c)
		return
	}
	notice := ""
	if c.Query("notice") == noticeProfile {
		notice = profileSuccessMessage
	}
	render(c, http.StatusOK, DashboardPage(sess, notice))
}

// SessionInfo maneja GET /api/session.
func (h *AuthHandler) SessionInfo(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		redirectToLogin(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": publicSession(sess)})
}

// PasswordStrength maneja POST /api/password-strength. La contrasena viaja en
// el cuerpo para que no quede en la URL ni en los access logs.
func (h *AuthHandler) PasswordStrength(c *gin.Context) {
	var req struct {
		Password string `form:"password" json:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"strength": service.PasswordStrength(req.Password)})
}

func publicSession(sess domain.Session) gin.H {
	return gin.H{
		"id":    sess.ID,
		"name":  sess.Name,
		"age":   sess.Age,
		"email": sess.Email,
	}
}
