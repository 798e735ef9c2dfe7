package sanitizer

import "context"

// HoneytokenReplacement is written in place of any detected honeytoken.
const HoneytokenReplacement = "[HONEYTOKEN TRIGGERED]"

// HoneytokenHandler decides whether data is a planted honeytoken and reacts
// when one shows up in content passing through the scanner. Implementations
// may check a database or an external service; OnDetected is the hook for
// SIEM alerts and must not block for long.
type HoneytokenHandler interface {
	IsHoneytoken(data string) bool
	OnDetected(ctx context.Context, data string)
}

// MemoryHoneytokens is an in-memory HoneytokenHandler over a fixed token
// set, with an optional alert callback.
type MemoryHoneytokens struct {
	tokens map[string]struct{}
	alert  func(ctx context.Context, data string)
}

// NewMemoryHoneytokens builds a handler from a static token list.
func NewMemoryHoneytokens(tokens []string, alert func(ctx context.Context, data string)) *MemoryHoneytokens {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return &MemoryHoneytokens{tokens: set, alert: alert}
}

func (m *MemoryHoneytokens) IsHoneytoken(data string) bool {
	_, ok := m.tokens[data]
	return ok
}

func (m *MemoryHoneytokens) OnDetected(ctx context.Context, data string) {
	if m.alert != nil {
		m.alert(ctx, data)
	}
}

// Tokens returns the configured token values. Used for the substring pass,
// which catches honeytokens that no detection rule would ever match.
func (m *MemoryHoneytokens) Tokens() []string {
	out := make([]string, 0, len(m.tokens))
	for t := range m.tokens {
		out = append(out, t)
	}
	return out
}
