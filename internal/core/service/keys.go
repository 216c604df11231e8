package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

const (
	apiKeyLength      = 32
	apiKeyAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sessionTokenBytes = 48
	maxAPIKeyAttempts = 5
	maxTokenDigestKey = 64
)

// generateAPIKey returns a random alphanumeric access key.
func generateAPIKey() (string, error) {
	limit := big.NewInt(int64(len(apiKeyAlphabet)))
	b := make([]byte, apiKeyLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate api key: %w", err)
		}
		b[i] = apiKeyAlphabet[n.Int64()]
	}
	return string(b), nil
}

// generateSessionToken returns an unguessable URL-safe cookie token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// tokenDigester hashes session tokens with a keyed BLAKE2b-256 so only the
// digest is stored.
type tokenDigester struct {
	key []byte
}

func newTokenDigester(key []byte) tokenDigester {
	if len(key) > maxTokenDigestKey {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return tokenDigester{key: key}
}

func (d tokenDigester) digest(token string) string {
	h, err := blake2b.New256(d.key)
	if err != nil {
		// key length is bounded in newTokenDigester
		panic(err)
	}
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}
