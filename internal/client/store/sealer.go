package store

import (
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/poputka/internal/cryptox"
	"github.com/dmitrijs2005/poputka/internal/filex"
)

const (
	deviceSecretFile = "device.key"
	deviceSecretSize = 32
)

var deviceKeySalt = []byte("poputka/kv/v1")

// Sealer encrypts values before they reach the database.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// DeviceSealer seals values under a key derived from a per-device secret.
type DeviceSealer struct {
	key []byte
}

func NewDeviceSealer(secret []byte) *DeviceSealer {
	return &DeviceSealer{key: cryptox.DeriveDeviceKey(secret, deviceKeySalt)}
}

// LoadDeviceSealer reads (or creates) the device secret in stateDir.
func LoadDeviceSealer(stateDir string) (*DeviceSealer, error) {
	secret, err := filex.LoadOrCreateSecret(filepath.Join(stateDir, deviceSecretFile), deviceSecretSize)
	if err != nil {
		return nil, fmt.Errorf("device secret: %w", err)
	}
	return NewDeviceSealer(secret), nil
}

func (s *DeviceSealer) Seal(plaintext []byte) ([]byte, error) {
	return cryptox.Seal(plaintext, s.key)
}

func (s *DeviceSealer) Open(sealed []byte) ([]byte, error) {
	return cryptox.Open(sealed, s.key)
}
