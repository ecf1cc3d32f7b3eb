package service

import (
	"strings"
	"unicode/utf16"
)

// Strength es el indicador de fuerza que se muestra mientras se escribe la contraseña.
type Strength string

const (
	StrengthWeak     Strength = "Weak"
	StrengthModerate Strength = "Moderate"
	StrengthStrong   Strength = "Strong"
)

const (
	minPasswordLength    = 6
	strongPasswordLength = 10
)

// ValidateEmail acepta cualquier texto con "@" que termine en ".com".
func ValidateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.HasSuffix(email, ".com")
}

// ValidatePassword exige minuscula, mayuscula y digito ASCII y al menos 6 caracteres.
// Los saltos de linea no cuentan como caracteres validos.
// El largo se mide en unidades UTF-16, como lo mide el navegador.
func ValidatePassword(password string) bool {
	if passwordLength(password) < minPasswordLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			return false
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}

func PasswordStrength(password string) Strength {
	switch {
	case !ValidatePassword(password):
		return StrengthWeak
	case passwordLength(password) < strongPasswordLength:
		return StrengthModerate
	default:
		return StrengthStrong
	}
}

func passwordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}
