package validator

import "regexp"

// Secret-token detectors. For machine-issued credentials the pattern itself
// is proof; there is no checksum to run, so Validate always accepts a match.

var (
	// StripeKey matches Stripe secret API keys.
	StripeKey = register(secretValidator{
		kind:    "stripe_key",
		pattern: regexp.MustCompile(`\bsk_(?:live|test)_[0-9a-zA-Z]{24,}\b`),
	})
	// AWSAccessKey matches AWS access key IDs.
	AWSAccessKey = register(secretValidator{
		kind:    "aws_access_key",
		pattern: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	})
	// GoogleOAuthToken matches Google OAuth 2.0 access tokens.
	GoogleOAuthToken = register(secretValidator{
		kind:    "google_oauth_token",
		pattern: regexp.MustCompile(`\bya29\.[0-9A-Za-z_-]{20,}`),
	})
	// PrivateKeyHeader matches PEM private key headers.
	PrivateKeyHeader = register(secretValidator{
		kind:    "private_key",
		pattern: regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`),
	})
)

type secretValidator struct {
	kind    string
	pattern *regexp.Regexp
}

func (s secretValidator) Kind() string            { return s.kind }
func (s secretValidator) Pattern() *regexp.Regexp { return s.pattern }
func (s secretValidator) Validate(string) bool    { return true }
