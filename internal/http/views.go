package http

import (
	"strconv"

	"neon-portal/internal/domain"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -f views.templ

// LoginView es lo que muestra la pagina "/".
type LoginView struct {
	Email  string
	Error  string
	Notice string
}

// SignupView conserva lo tipeado cuando el registro falla.
type SignupView struct {
	Name  string
	Age   string
	Email string
	Error string
}

// ProfileView es el formulario de edicion prellenado.
type ProfileView struct {
	Name  string
	Age   string
	Error string
}

func profileViewFor(sess domain.Session) ProfileView {
	return ProfileView{Name: sess.Name, Age: strconv.Itoa(sess.Age)}
}
