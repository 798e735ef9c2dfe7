package sanitizer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"opaque/internal/vault"
)

// Obfuscator produces the replacement written in place of validated
// sensitive data. Implementations must be safe for concurrent use.
type Obfuscator interface {
	// Method returns the configuration name of this obfuscator.
	Method() string

	// Obfuscate returns the replacement for value. kind is the validator
	// kind that matched, available for keyed strategies.
	Obfuscate(kind, value string) string
}

// Method names accepted in configuration.
const (
	MethodHash         = "HASH"
	MethodMask         = "MASK"
	MethodVault        = "VAULT"
	MethodAnonymize    = "ANON"
	MethodPseudonymize = "PSEUDO"
)

// NewObfuscator resolves a configured method name into an Obfuscator.
// The vault may be nil unless method is MethodVault.
func NewObfuscator(method, salt, secretKey string, v *vault.Vault) (Obfuscator, error) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case MethodHash:
		return NewHashObfuscator(salt), nil
	case MethodMask, "":
		return MaskObfuscator{}, nil
	case MethodVault:
		if v == nil {
			return nil, errors.New("vault obfuscation requires a vault")
		}
		return NewVaultObfuscator(v), nil
	case MethodAnonymize:
		return AnonymizeObfuscator{}, nil
	case MethodPseudonymize:
		return NewPseudonymizeObfuscator(secretKey), nil
	default:
		return nil, fmt.Errorf("unknown obfuscation method %q", method)
	}
}

// HashObfuscator emits a deterministic salted SHA-256 fingerprint like
// [HASH-3A4C]. Equal inputs under the same salt collapse to the same tag,
// which keeps logs correlatable. This is pseudonymization, not anonymization.
type HashObfuscator struct {
	salt string
}

// NewHashObfuscator creates a fingerprinting obfuscator with the given salt.
func NewHashObfuscator(salt string) *HashObfuscator {
	return &HashObfuscator{salt: salt}
}

func (h *HashObfuscator) Method() string { return MethodHash }

func (h *HashObfuscator) Obfuscate(_, value string) string {
	sum := sha256.Sum256([]byte(value + h.salt))
	return "[HASH-" + strings.ToUpper(hex.EncodeToString(sum[:2])) + "]"
}

// MaskObfuscator replaces values with a constant marker.
type MaskObfuscator struct{}

func (MaskObfuscator) Method() string               { return MethodMask }
func (MaskObfuscator) Obfuscate(_, _ string) string { return "***" }

// VaultObfuscator encrypts values reversibly via the vault.
type VaultObfuscator struct {
	vault *vault.Vault
}

// NewVaultObfuscator wraps a vault for reversible obfuscation.
func NewVaultObfuscator(v *vault.Vault) *VaultObfuscator {
	return &VaultObfuscator{vault: v}
}

func (o *VaultObfuscator) Method() string { return MethodVault }

func (o *VaultObfuscator) Obfuscate(_, value string) string {
	return o.vault.Encrypt(value)
}

// AnonymizeObfuscator emits a fresh random tag per occurrence. There is no
// way to reverse it or correlate two occurrences of the same value.
type AnonymizeObfuscator struct{}

func (AnonymizeObfuscator) Method() string { return MethodAnonymize }

func (AnonymizeObfuscator) Obfuscate(_, _ string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "[ANON-" + strings.ToUpper(id[:8]) + "]"
}

// PseudonymizeObfuscator emits a keyed HMAC-SHA256 tag over kind:value.
// Deterministic per key, so logs stay correlatable, but the key must be
// protected as sensitive data.
type PseudonymizeObfuscator struct {
	key []byte
}

// NewPseudonymizeObfuscator creates a keyed pseudonymizer.
func NewPseudonymizeObfuscator(secretKey string) *PseudonymizeObfuscator {
	return &PseudonymizeObfuscator{key: []byte(secretKey)}
}

func (p *PseudonymizeObfuscator) Method() string { return MethodPseudonymize }

func (p *PseudonymizeObfuscator) Obfuscate(kind, value string) string {
	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(kind + ":" + value))
	sum := mac.Sum(nil)
	return "[PSEUDO-" + strings.ToUpper(hex.EncodeToString(sum[:4])) + "]"
}
