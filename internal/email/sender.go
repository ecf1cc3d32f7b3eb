package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para avisos por correo al usuario.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, name string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendWelcome(_ context.Context, _ string, _ string) error {
	if s.reason == "" {
		return ErrDisabled
	}
	return errors.Join(ErrDisabled, errors.New(s.reason))
}

var ErrDisabled = errors.New("email sender disabled")
