package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neon-portal/internal/service"
)

// ProfileHandler atiende la edicion de perfil del usuario en sesion.
type ProfileHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewProfileHandler(logger *zap.Logger, userServ *service.UserService) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// EditPage maneja GET /edit-profile.
func (h *ProfileHandler) EditPage(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		redirectToLogin(c)
		return
	}
	render(c, http.StatusOK, EditProfilePage(profileViewFor(sess)))
}

// profileAge acepta la edad como texto (formulario) o como numero JSON,
// igual que la devuelve /api/session.
type profileAge string

func (a *profileAge) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*a = profileAge(text)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*a = profileAge(num.String())
	return nil
}

// Update maneja POST /edit-profile. La validacion de la edad queda en el servicio.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req struct {
		Name string     `form:"name" json:"name"`
		Age  profileAge `form:"age" json:"age"`
	}
	page := func(msg string) templ.Component {
		return EditProfilePage(ProfileView{Name: req.Name, Age: string(req.Age), Error: msg})
	}
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid profile request", zap.Error(err))
		respondInvalidRequest(c, page)
		return
	}

	client, ok := GetClient(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client not resolved"})
		return
	}
	sess, err := client.UpdateProfile(c.Request.Context(), h.userServ, service.ProfileInput{
		Name: req.Name,
		Age:  string(req.Age),
	})
	if err != nil {
		respondFlowError(c, err, page)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"session": publicSession(sess), "message": profileSuccessMessage})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard?notice="+noticeProfile)
}
