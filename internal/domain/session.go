package domain

// Session es la copia completa del usuario autenticado que mantiene un cliente.
// Se serializa tal cual como registro persistido, hash incluido.
type Session struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// NewSession copia un User (incluido su id del store) en una Session.
func NewSession(user User) Session {
	return Session{
		ID:           user.ID,
		Name:         user.Name,
		Age:          user.Age,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
}

// WithProfile devuelve la sesion con nombre y edad reemplazados; id, email y hash no cambian.
func (s Session) WithProfile(name string, age int) Session {
	s.Name = name
	s.Age = age
	return s
}
