package domain

// User es el registro que vive en el document store externo (coleccion "users").
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
