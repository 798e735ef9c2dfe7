package vault

// Package vault provides reversible obfuscation. Values are encrypted with
// AES-256-GCM under a key derived from the master key via PBKDF2 and wrapped
// as [VAULT:...] tokens so they can be recovered later with the reveal flow.

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// TokenPrefix wraps every vault token embedded in sanitized output.
	TokenPrefix = "[VAULT:"
	// TokenSuffix closes the wrapper.
	TokenSuffix = "]"

	// NoKeyPlaceholder is emitted when encryption is requested but no
	// master key is configured. It is intentionally not reversible.
	NoKeyPlaceholder = "[VAULT-NO-KEY-CONFIGURED]"

	kdfIterations = 100000
	kdfSalt       = "opaque_static_salt"
)

var (
	ErrNoKey          = errors.New("vault: no master key configured")
	ErrMalformedToken = errors.New("vault: malformed token")
	ErrDecryptFailed  = errors.New("vault: decryption failed")
)

// Vault encrypts and decrypts sensitive values.
type Vault struct {
	aead cipher.AEAD
}

// New derives an AES-256-GCM key from the master key. An empty master key
// yields a vault that emits NoKeyPlaceholder and refuses to decrypt.
func New(masterKey string) (*Vault, error) {
	if masterKey == "" {
		return &Vault{}, nil
	}
	key := pbkdf2.Key([]byte(masterKey), []byte(kdfSalt), kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: create gcm: %w", err)
	}
	return &Vault{aead: aead}, nil
}

// Configured reports whether a master key was provided.
func (v *Vault) Configured() bool { return v.aead != nil }

// Encrypt seals data and returns a [VAULT:...] token. Without a configured
// key it returns NoKeyPlaceholder so logging keeps working in dev setups.
func (v *Vault) Encrypt(data string) string {
	if v.aead == nil {
		return NoKeyPlaceholder
	}
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		// rand.Read failing means the platform RNG is broken; do not leak
		// the plaintext in that case.
		return NoKeyPlaceholder
	}
	sealed := v.aead.Seal(nonce, nonce, []byte(data), nil)
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(sealed) + TokenSuffix
}

// Decrypt opens a token produced by Encrypt. Both the wrapped [VAULT:...]
// form and the bare base64 payload are accepted.
func (v *Vault) Decrypt(token string) (string, error) {
	if v.aead == nil {
		return "", ErrNoKey
	}
	payload := strings.TrimSpace(token)
	if strings.HasPrefix(payload, TokenPrefix) && strings.HasSuffix(payload, TokenSuffix) {
		payload = payload[len(TokenPrefix) : len(payload)-len(TokenSuffix)]
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrMalformedToken
	}
	if len(raw) < v.aead.NonceSize() {
		return "", ErrMalformedToken
	}
	nonce, ciphertext := raw[:v.aead.NonceSize()], raw[v.aead.NonceSize():]
	plain, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}
