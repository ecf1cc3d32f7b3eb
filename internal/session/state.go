// Package session mantiene la sesion de cada cliente y su registro persistido.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"neon-portal/internal/domain"
	"neon-portal/internal/localstore"
)

// RecordKey es la clave fija del registro persistido dentro del storage del cliente.
const RecordKey = "currentUser"

var ErrCorruptRecord = errors.New("corrupt session record")

// State es Anonymous o Authenticated. No hay otras variantes.
type State interface {
	isState()
}

type Anonymous struct{}

type Authenticated struct {
	Session domain.Session
}

func (Anonymous) isState()     {}
func (Authenticated) isState() {}

// Current devuelve la sesion si el estado es Authenticated.
func Current(state State) (domain.Session, bool) {
	switch s := state.(type) {
	case Authenticated:
		return s.Session, true
	default:
		return domain.Session{}, false
	}
}

func EncodeRecord(sess domain.Session) (string, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeRecord exige un objeto JSON con id; cualquier otra cosa es ErrCorruptRecord.
func DecodeRecord(raw string) (domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if sess.ID == "" {
		return domain.Session{}, fmt.Errorf("%w: missing id", ErrCorruptRecord)
	}
	return sess, nil
}

// Bootstrap lee el registro persistido sin consultar el store de usuarios.
// Registro ausente, ilegible o storage caido terminan en Anonymous; el error
// solo distingue el motivo para los logs.
func Bootstrap(ctx context.Context, storage localstore.Store) (State, error) {
	raw, ok, err := storage.Get(ctx, RecordKey)
	if err != nil {
		return Anonymous{}, fmt.Errorf("read session record: %w", err)
	}
	if !ok {
		return Anonymous{}, nil
	}
	sess, err := DecodeRecord(raw)
	if err != nil {
		return Anonymous{}, err
	}
	return Authenticated{Session: sess}, nil
}
