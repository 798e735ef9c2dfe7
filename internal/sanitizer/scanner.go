// Package sanitizer implements the deterministic data masking engine:
// regex candidate detection, mathematical validation, pluggable obfuscation,
// honeytoken detection and log-flood protection. A scanner with no rules and
// no honeytokens returns every input byte-for-byte unchanged.
package sanitizer

import (
	"context"
	"strings"
	"time"

	"opaque/internal/validator"
)

// FloodMessage replaces the entire input while the circuit breaker is open.
const FloodMessage = "[OPAQUE: LOG FLOOD PROTECTION ACTIVATED - DATA DISCARDED]"

// Defaults for the circuit breaker.
const (
	DefaultCircuitThreshold     = 1000
	DefaultCircuitResetAfter    = 5 * time.Second
	DefaultSuspiciousMatchCount = 10
)

// Config assembles a Scanner.
type Config struct {
	// Rules are the validators applied to every input.
	Rules []validator.Validator

	// Obfuscator produces replacements for validated matches.
	// Defaults to masking when nil.
	Obfuscator Obfuscator

	// Honeytokens are planted values caught by plain substring search,
	// independent of any rule.
	Honeytokens []string

	// Handler, when set, is consulted for every rule candidate before
	// validation and notified on hits.
	Handler HoneytokenHandler

	// Circuit breaker tuning; zero values pick the defaults.
	CircuitThreshold     int
	CircuitResetAfter    time.Duration
	SuspiciousMatchCount int
}

// Detection describes one redacted match.
type Detection struct {
	Kind        string `json:"kind"`
	Replacement string `json:"replacement"`
}

// SuspectedFake is a pattern match that failed mathematical validation.
// It is left in the text untouched but surfaced so callers can warn:
// syntactically plausible but invalid documents often indicate seeded
// fake data or probing.
type SuspectedFake struct {
	Kind      string
	Candidate string
}

// Result is the outcome of one Sanitize call.
type Result struct {
	Text           string
	Detections     []Detection
	HoneytokenHits int
	SuspectedFakes []SuspectedFake
	// Discarded is set when flood protection replaced the input entirely.
	Discarded bool
}

// Scanner scans text for sensitive data and replaces what validates.
// Safe for concurrent use.
type Scanner struct {
	rules       []validator.Validator
	obfuscator  Obfuscator
	honeytokens []string
	handler     HoneytokenHandler
	suspicious  int
	guard       *floodGuard
}

// New builds a Scanner from cfg.
func New(cfg Config) *Scanner {
	obf := cfg.Obfuscator
	if obf == nil {
		obf = MaskObfuscator{}
	}
	threshold := cfg.CircuitThreshold
	if threshold <= 0 {
		threshold = DefaultCircuitThreshold
	}
	reset := cfg.CircuitResetAfter
	if reset <= 0 {
		reset = DefaultCircuitResetAfter
	}
	suspicious := cfg.SuspiciousMatchCount
	if suspicious <= 0 {
		suspicious = DefaultSuspiciousMatchCount
	}
	return &Scanner{
		rules:       cfg.Rules,
		obfuscator:  obf,
		honeytokens: cfg.Honeytokens,
		handler:     cfg.Handler,
		suspicious:  suspicious,
		guard:       newFloodGuard(threshold, reset),
	}
}

// Method returns the active obfuscation method name.
func (s *Scanner) Method() string { return s.obfuscator.Method() }

// Sanitize scans text and returns the redacted form together with what was
// found. With no rules, no honeytokens and a closed circuit the returned
// text is the input unchanged.
func (s *Scanner) Sanitize(ctx context.Context, text string) Result {
	if s.guard.blocked() {
		return Result{Text: FloodMessage, Discarded: true}
	}

	res := Result{}
	current := text

	// Honeytokens first: plain substring search catches planted values
	// that no detection rule would match.
	for _, token := range s.honeytokens {
		if !strings.Contains(current, token) {
			continue
		}
		res.HoneytokenHits += strings.Count(current, token)
		current = strings.ReplaceAll(current, token, HoneytokenReplacement)
		if s.handler != nil {
			s.handler.OnDetected(ctx, token)
		}
	}

	for _, rule := range s.rules {
		matches := rule.Pattern().FindAllStringIndex(current, -1)
		if len(matches) == 0 {
			continue
		}
		if len(matches) > s.suspicious {
			if s.guard.add(len(matches)) {
				return Result{Text: FloodMessage, Discarded: true}
			}
		}

		// Replace right-to-left so earlier spans stay valid.
		for i := len(matches) - 1; i >= 0; i-- {
			start, end := matches[i][0], matches[i][1]
			candidate := current[start:end]

			if s.handler != nil && s.handler.IsHoneytoken(candidate) {
				s.handler.OnDetected(ctx, candidate)
				res.HoneytokenHits++
				current = current[:start] + HoneytokenReplacement + current[end:]
				continue
			}

			if !rule.Validate(candidate) {
				res.SuspectedFakes = append(res.SuspectedFakes, SuspectedFake{
					Kind:      rule.Kind(),
					Candidate: candidate,
				})
				continue
			}

			replacement := s.obfuscator.Obfuscate(rule.Kind(), candidate)
			res.Detections = append(res.Detections, Detection{
				Kind:        rule.Kind(),
				Replacement: replacement,
			})
			current = current[:start] + replacement + current[end:]
		}
	}

	res.Text = current
	return res
}
