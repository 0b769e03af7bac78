package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/banachtech/opricer/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	secretLength = 16
	keyValidity  = 6 // months
)

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}

// GenerateKey issues a new API key <prefix>.<secret> valid for six months from now
// and the configuration entry holding its bcrypt hash.
func GenerateKey(now time.Time, cost int) (string, config.KeyConfig, error) {
	prefix, err := randomString(prefixLength)
	if err != nil {
		return "", config.KeyConfig{}, err
	}
	secret, err := randomString(secretLength)
	if err != nil {
		return "", config.KeyConfig{}, err
	}
	apiKey := fmt.Sprintf("%s.%s", prefix, secret)
	hashed, err := bcrypt.GenerateFromPassword([]byte(apiKey), cost)
	if err != nil {
		return "", config.KeyConfig{}, err
	}
	return apiKey, config.KeyConfig{
		Prefix:    prefix,
		Hash:      string(hashed),
		ExpiresAt: now.AddDate(0, keyValidity, 0).Format(config.KeyLayout),
	}, nil
}
