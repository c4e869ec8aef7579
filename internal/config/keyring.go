// internal/config/keyring.go
package config

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName   = "ezcomplete"
	masterKeyItem = "__master_key__"
)

// secretStore is the subset of a keyring the config needs.
type secretStore interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
}

// openStore opens the OS keyring; tests replace it.
var openStore = func() (secretStore, error) {
	ring, err := keyring.Open(keyring.Config{ServiceName: serviceName})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// MasterKey retrieves the password encryption key, generating and storing one
// on first use.
func MasterKey() ([]byte, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	item, err := store.Get(masterKeyItem)
	if err == nil {
		return hex.DecodeString(string(item.Data))
	}
	if !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("read master key: %w", err)
	}

	key, err := newKey()
	if err != nil {
		return nil, err
	}
	if err := store.Set(keyring.Item{
		Key:   masterKeyItem,
		Label: serviceName + " master key",
		Data:  []byte(hex.EncodeToString(key)),
	}); err != nil {
		return nil, fmt.Errorf("store master key: %w", err)
	}
	return key, nil
}
