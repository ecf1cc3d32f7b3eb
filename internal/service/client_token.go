package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ClientTokenService firma el cookie que identifica a cada cliente (navegador).
// El token no expira: la sesion recordada tampoco lo hace.
type ClientTokenService struct {
	secret []byte
	issuer string
}

type ClientClaims struct {
	ClientID  string `json:"cid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

var ErrClientTokenInvalid = errors.New("client token invalid")

const clientTokenType = "client"

func NewClientTokenService(secret string) *ClientTokenService {
	return &ClientTokenService{
		secret: []byte(secret),
		issuer: "neon-portal",
	}
}

// Issue genera un client id nuevo y su token firmado.
func (s *ClientTokenService) Issue() (string, string, error) {
	if len(s.secret) == 0 {
		return "", "", ErrClientTokenInvalid
	}
	clientID := uuid.NewString()
	claims := ClientClaims{
		ClientID:  clientID,
		TokenType: clientTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  clientID,
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return clientID, signed, nil
}

// Parse valida firma y claims y devuelve el client id.
func (s *ClientTokenService) Parse(token string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(token) == "" {
		return "", ErrClientTokenInvalid
	}
	var claims ClientClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if _, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return "", ErrClientTokenInvalid
	}
	if !s.isValidClaims(claims) {
		return "", ErrClientTokenInvalid
	}
	return claims.ClientID, nil
}

func (s *ClientTokenService) isValidClaims(claims ClientClaims) bool {
	if claims.TokenType != clientTokenType {
		return false
	}
	if claims.Subject != claims.ClientID {
		return false
	}
	if _, err := uuid.Parse(claims.ClientID); err != nil {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
