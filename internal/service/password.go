package service

import "golang.org/x/crypto/bcrypt"

// passwordCost es fijo; los hashes existentes dependen de el.
const passwordCost = 10

// bcrypt solo mira los primeros 72 bytes; se truncan explicitamente para que
// contraseñas largas no fallen al hashear.
const bcryptMaxBytes = 72

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}
