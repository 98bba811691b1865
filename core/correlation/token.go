// ABOUTME: Correlation token generation, echo instructions, and token stripping
// ABOUTME: Tokens are 8-character lowercase alphanumeric strings drawn from crypto/rand

package correlation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"newsdesk-api/core/domain"
)

const (
	tokenLength   = 8
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenMarker   = "REF:"
)

// TokenSource produces fresh correlation tokens
type TokenSource func() domain.CorrelationToken

// RandomToken returns a new random token
func RandomToken() domain.CorrelationToken {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("correlation: crypto/rand failed: %v", err))
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return domain.CorrelationToken(buf)
}

// EchoInstruction returns the text appended to a prompt asking the counterparty to echo token
func EchoInstruction(token domain.CorrelationToken) string {
	return fmt.Sprintf("\n\nEnd your reply with the reference code %s%s exactly as written.", tokenMarker, token)
}

// WithToken appends the echo instruction for token to prompt
func WithToken(prompt string, token domain.CorrelationToken) string {
	return strings.TrimRight(prompt, " \n") + EchoInstruction(token)
}

// ContainsToken reports whether body carries token verbatim
func ContainsToken(body string, token domain.CorrelationToken) bool {
	if token == "" {
		return false
	}
	return strings.Contains(body, string(token))
}

// StripToken removes the token, with or without its marker, and tidies leftover whitespace
func StripToken(body string, token domain.CorrelationToken) string {
	if token == "" {
		return strings.TrimSpace(body)
	}
	pattern := regexp.MustCompile(`(?i)\s*(?:\[?\s*` + regexp.QuoteMeta(tokenMarker) + `\s*)?` + regexp.QuoteMeta(string(token)) + `\]?`)
	return strings.TrimSpace(pattern.ReplaceAllString(body, ""))
}
