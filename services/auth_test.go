package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var otpPattern = regexp.MustCompile(`^\d{6}$`)

func TestGenerateOTPCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateOTPCode()
		assert.True(t, otpPattern.MatchString(code), "unexpected code: %s", code)
		seen[code] = true
	}
	// Codes are random, not a constant
	assert.Greater(t, len(seen), 1)
}

func TestGenericResetMessage(t *testing.T) {
	// The message must not mention whether the account exists; it is the
	// single response for both cases.
	assert.NotContains(t, GenericResetMessage, "not found")
	assert.NotContains(t, GenericResetMessage, "no account")
	assert.NotEmpty(t, GenericResetMessage)
}
