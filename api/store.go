package api

import (
	"context"
	"errors"
	"time"

	"github.com/banachtech/opricer/config"
)

var ErrKeyNotFound = errors.New("api key not found")

// APIKey is a stored key: the public prefix and the bcrypt hash of the full key.
type APIKey struct {
	Prefix    string
	Hash      string
	ExpiresAt time.Time
}

// KeyStore looks up API keys by prefix.
type KeyStore interface {
	GetKey(ctx context.Context, prefix string) (APIKey, error)
}

// StaticKeys is a KeyStore backed by the server configuration.
type StaticKeys map[string]APIKey

// Constructor for StaticKeys. A missing expiry means the key never expires.
func NewStaticKeys(keys []config.KeyConfig) (StaticKeys, error) {
	s := make(StaticKeys, len(keys))
	for _, k := range keys {
		key := APIKey{Prefix: k.Prefix, Hash: k.Hash}
		if k.ExpiresAt != "" {
			t, err := time.Parse(config.KeyLayout, k.ExpiresAt)
			if err != nil {
				return nil, err
			}
			key.ExpiresAt = t
		}
		s[k.Prefix] = key
	}
	return s, nil
}

func (s StaticKeys) GetKey(_ context.Context, prefix string) (APIKey, error) {
	k, ok := s[prefix]
	if !ok {
		return APIKey{}, ErrKeyNotFound
	}
	return k, nil
}
