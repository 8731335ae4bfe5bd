package session

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "rejimde"

// Keyring key names for the persisted session fields.
const (
	keyToken       = "token"
	keyRole        = "role"
	keyUserID      = "user_id"
	keyDisplayName = "display_name"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/rejimde/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("rejimde-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// getCredential retrieves a credential value by key. A missing key is
// returned as an empty string, not an error: an absent session is a
// normal state.
func getCredential(ring keyring.Keyring, key string) (string, error) {
	item, err := ring.Get(key)
	if err != nil {
		if err == keyring.ErrKeyNotFound {
			return "", nil
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// setCredential stores a credential value by key.
func setCredential(ring keyring.Keyring, key, value string) error {
	err := ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// deleteCredential removes a credential by key, ignoring missing keys.
func deleteCredential(ring keyring.Keyring, key string) error {
	err := ring.Remove(key)
	if err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
