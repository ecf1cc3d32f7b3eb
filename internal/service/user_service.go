package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"neon-portal/internal/domain"
	"neon-portal/internal/email"
	"neon-portal/internal/repository"
)

// UserService coordina registro, login y edicion de perfil contra el store externo.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if emailSender == nil {
		emailSender = email.NewDisabledSender("")
	}
	return &UserService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
	}
}

type SignupInput struct {
	Name            string
	Age             int
	Email           string
	Password        string
	ConfirmPassword string
}

type ProfileInput struct {
	Name string
	Age  string
}

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrWeakPassword       = errors.New("weak password")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// StoreError envuelve una falla del store externo; su mensaje llega tal cual al usuario.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "Error " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UserMessage traduce un error de los flujos al texto que se muestra.
func UserMessage(err error) string {
	var storeErr *StoreError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email. It must include '@' and end with '.com'."
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, ErrWeakPassword):
		return "Password must include at least one uppercase letter, one lowercase letter, one number, and be at least 6 characters long."
	case errors.Is(err, ErrDuplicateEmail):
		return "User with this email already exists."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrInvalidInput):
		return "Name and age cannot be empty."
	case errors.As(err, &storeErr):
		return storeErr.Error()
	default:
		return "Something went wrong. Please try again."
	}
}

// Signup valida en orden y escribe en el store una sola vez, al final.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	if !ValidateEmail(input.Email) {
		return domain.User{}, ErrInvalidEmail
	}
	if input.Password != input.ConfirmPassword {
		return domain.User{}, ErrPasswordMismatch
	}
	if !ValidatePassword(input.Password) {
		return domain.User{}, ErrWeakPassword
	}

	_, err := s.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return domain.User{}, ErrDuplicateEmail
	case !errors.Is(err, repository.ErrNotFound):
		s.logger.Error("signup lookup failed", zap.Error(err))
		return domain.User{}, &StoreError{Op: "signing up", Err: err}
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         input.Name,
		Age:          input.Age,
		Email:        input.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// El indice unico cierra la carrera entre dos registros simultaneos.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return domain.User{}, ErrDuplicateEmail
		}
		s.logger.Error("signup store write failed", zap.Error(err))
		return domain.User{}, &StoreError{Op: "signing up", Err: err}
	}

	if err := s.emailSender.SendWelcome(ctx, user.Email, user.Name); err != nil && !errors.Is(err, email.ErrDisabled) {
		s.logger.Warn("send welcome email failed", zap.Error(err), zap.String("user_id", user.ID))
	}
	return user, nil
}

// Login nunca revela si el email existe: ambos fallos devuelven ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, emailAddr, password string) (domain.Session, error) {
	if s.users == nil {
		return domain.Session{}, errors.New("user service not configured")
	}
	if !ValidateEmail(emailAddr) {
		return domain.Session{}, ErrInvalidEmail
	}

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return domain.Session{}, &StoreError{Op: "logging in", Err: err}
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return domain.Session{}, ErrInvalidCredentials
	}
	return domain.NewSession(user), nil
}

// UpdateProfile cambia nombre y edad en el store y devuelve la sesion fusionada.
func (s *UserService) UpdateProfile(ctx context.Context, current domain.Session, input ProfileInput) (domain.Session, error) {
	if s.users == nil {
		return domain.Session{}, errors.New("user service not configured")
	}
	if input.Name == "" || strings.TrimSpace(input.Age) == "" {
		return domain.Session{}, ErrInvalidInput
	}
	age, err := strconv.Atoi(strings.TrimSpace(input.Age))
	if err != nil {
		return domain.Session{}, ErrInvalidInput
	}

	if err := s.users.UpdateProfile(ctx, current.ID, input.Name, age); err != nil {
		s.logger.Error("profile store write failed", zap.Error(err), zap.String("user_id", current.ID))
		return domain.Session{}, &StoreError{Op: "updating profile", Err: err}
	}
	return current.WithProfile(input.Name, age), nil
}
