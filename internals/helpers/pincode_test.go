// file: internals/helpers/pincode_test.go
package helper

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePinCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		pin := GeneratePinCode()
		assert.Regexp(t, pattern, pin)
	}
}

func TestGeneratePinCodeNotConstant(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		seen[GeneratePinCode()] = struct{}{}
	}
	// 50 draw dari 1 juta kemungkinan: hampir pasti > 1 nilai unik
	assert.Greater(t, len(seen), 1)
}
