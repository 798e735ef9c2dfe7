package sanitizer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opaque/internal/validator"
	"opaque/internal/vault"
)

func mustRules(t *testing.T, kinds ...string) []validator.Validator {
	t.Helper()
	rules, err := validator.FromKinds(kinds)
	require.NoError(t, err)
	return rules
}

func TestSanitizeIdentityWithoutRules(t *testing.T) {
	s := New(Config{})
	ctx := context.Background()

	inputs := []string{
		"",
		"plain text",
		"CPF: 529.982.247-25", // even valid documents pass through with no rules
		"control \x00\x01\x1f chars",
		"multi-byte: coração, 日本語, 🔒",
		strings.Repeat("long line with numbers 1234567890 ", 2000),
	}
	for _, in := range inputs {
		res := s.Sanitize(ctx, in)
		assert.Equal(t, in, res.Text)
		assert.Empty(t, res.Detections)
		assert.False(t, res.Discarded)
	}
}

func TestSanitizeValidCPFHash(t *testing.T) {
	s := New(Config{
		Rules:      mustRules(t, "br_cpf"),
		Obfuscator: NewHashObfuscator("salty"),
	})

	res := s.Sanitize(context.Background(), "O CPF do cliente é 529.982.247-25.")
	assert.NotContains(t, res.Text, "529.982.247-25")
	assert.Contains(t, res.Text, "[HASH-")
	require.Len(t, res.Detections, 1)
	assert.Equal(t, "br_cpf", res.Detections[0].Kind)
}

func TestSanitizeValidCPFMask(t *testing.T) {
	s := New(Config{Rules: mustRules(t, "br_cpf")})

	res := s.Sanitize(context.Background(), "CPF: 529.982.247-25")
	assert.Equal(t, "CPF: ***", res.Text)
}

func TestSanitizeLeavesInvalidCPF(t *testing.T) {
	s := New(Config{
		Rules:      mustRules(t, "br_cpf"),
		Obfuscator: NewHashObfuscator("salty"),
	})

	res := s.Sanitize(context.Background(), "Erro no CPF 111.222.333-44")
	assert.Contains(t, res.Text, "111.222.333-44")
	assert.Empty(t, res.Detections)
	require.Len(t, res.SuspectedFakes, 1)
	assert.Equal(t, "br_cpf", res.SuspectedFakes[0].Kind)
	assert.Equal(t, "111.222.333-44", res.SuspectedFakes[0].Candidate)
}

func TestSanitizeMixedContent(t *testing.T) {
	s := New(Config{
		Rules:      mustRules(t, "br_cpf"),
		Obfuscator: NewHashObfuscator("salty"),
	})

	res := s.Sanitize(context.Background(), "Valid: 529.982.247-25, Invalid: 111.222.333-44")
	assert.Contains(t, res.Text, "[HASH-")
	assert.Contains(t, res.Text, "111.222.333-44")
	assert.NotContains(t, res.Text, "529.982.247-25")
}

func TestSanitizeMultipleRules(t *testing.T) {
	s := New(Config{
		Rules:      mustRules(t, "br_cpf", "credit_card", "stripe_key"),
		Obfuscator: NewHashObfuscator("salty"),
	})

	in := "cpf 529.982.247-25 card 4242 4242 4242 4242 key sk_test_4eC39HqLyjWDarjtT1zdp7dc"
	res := s.Sanitize(context.Background(), in)
	assert.NotContains(t, res.Text, "529.982.247-25")
	assert.NotContains(t, res.Text, "4242 4242 4242 4242")
	assert.NotContains(t, res.Text, "sk_test_4eC39HqLyjWDarjtT1zdp7dc")
	assert.Len(t, res.Detections, 3)
}

func TestSanitizePreservesSurroundingText(t *testing.T) {
	s := New(Config{Rules: mustRules(t, "credit_card")})
	ctx := context.Background()

	res := s.Sanitize(ctx, "card 4242424242424242 ok")
	assert.Equal(t, "card *** ok", res.Text)

	res = s.Sanitize(ctx, "card 4242 4242 4242 4242 ok")
	assert.Equal(t, "card *** ok", res.Text)
}

func TestSanitizeVaultMethod(t *testing.T) {
	v, err := vault.New("master-key")
	require.NoError(t, err)
	s := New(Config{
		Rules:      mustRules(t, "br_cpf"),
		Obfuscator: NewVaultObfuscator(v),
	})

	res := s.Sanitize(context.Background(), "CPF 529.982.247-25")
	assert.NotContains(t, res.Text, "529.982.247-25")
	assert.Contains(t, res.Text, vault.TokenPrefix)

	// The emitted token decrypts back to the original value.
	start := strings.Index(res.Text, vault.TokenPrefix)
	end := strings.Index(res.Text[start:], vault.TokenSuffix) + start
	plain, err := v.Decrypt(res.Text[start : end+1])
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25", plain)
}

func TestHoneytokenSubstring(t *testing.T) {
	s := New(Config{
		Honeytokens: []string{"canary-token-1"},
	})

	res := s.Sanitize(context.Background(), "access with canary-token-1 here")
	assert.Equal(t, "access with "+HoneytokenReplacement+" here", res.Text)
	assert.Equal(t, 1, res.HoneytokenHits)
}

func TestHoneytokenHandlerOnCandidates(t *testing.T) {
	var detected []string
	handler := NewMemoryHoneytokens([]string{"999.888.777-66"}, func(_ context.Context, data string) {
		detected = append(detected, data)
	})
	s := New(Config{
		Rules:      mustRules(t, "br_cpf"),
		Obfuscator: NewHashObfuscator("salty"),
		Handler:    handler,
	})
	ctx := context.Background()

	// The planted value is not a valid CPF, but it matches the CPF pattern
	// and the handler flags it before validation runs.
	res := s.Sanitize(ctx, "Access with 999.888.777-66")
	assert.Contains(t, res.Text, HoneytokenReplacement)
	assert.Equal(t, 1, res.HoneytokenHits)
	require.Len(t, detected, 1)
	assert.Equal(t, "999.888.777-66", detected[0])

	// A real CPF is sanitized normally, not flagged.
	res = s.Sanitize(ctx, "Access with 529.982.247-25")
	assert.NotContains(t, res.Text, "529.982.247-25")
	assert.Contains(t, res.Text, "[HASH-")
	assert.Len(t, detected, 1)
}

func TestFloodProtection(t *testing.T) {
	s := New(Config{
		Rules:                mustRules(t, "credit_card"),
		CircuitThreshold:     30,
		SuspiciousMatchCount: 10,
		CircuitResetAfter:    50 * time.Millisecond,
	})
	ctx := context.Background()

	// Each input carries enough candidates to count as suspicious.
	flood := strings.Repeat("4242424242424242 ", 20)

	var last Result
	for i := 0; i < 3; i++ {
		last = s.Sanitize(ctx, flood)
	}
	assert.True(t, last.Discarded)
	assert.Equal(t, FloodMessage, last.Text)

	// While open, everything is discarded, even clean input.
	res := s.Sanitize(ctx, "totally clean")
	assert.True(t, res.Discarded)
	assert.Equal(t, FloodMessage, res.Text)

	// After the reset window the circuit closes again.
	time.Sleep(60 * time.Millisecond)
	res = s.Sanitize(ctx, "totally clean")
	assert.False(t, res.Discarded)
	assert.Equal(t, "totally clean", res.Text)
}

func TestSanitizeStructure(t *testing.T) {
	s := New(Config{
		Rules:      mustRules(t, "br_cpf"),
		Obfuscator: NewHashObfuscator("salty"),
	})

	data := map[string]any{
		"user": map[string]any{
			"cpf": "529.982.247-25",
			"id":  float64(123),
		},
		"list": []any{"529.982.247-25", "safe"},
	}

	out, res := s.SanitizeStructure(context.Background(), data)
	m := out.(map[string]any)
	user := m["user"].(map[string]any)
	assert.Contains(t, user["cpf"], "[HASH-")
	assert.Equal(t, float64(123), user["id"])

	list := m["list"].([]any)
	assert.Contains(t, list[0], "[HASH-")
	assert.Equal(t, "safe", list[1])

	assert.Len(t, res.Detections, 2)
}
