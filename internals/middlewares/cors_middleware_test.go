// file: internals/middlewares/cors_middleware_test.go
package middlewares

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsAllowedOriginsParsesEnvList(t *testing.T) {
	got := corsAllowedOrigins(" https://a.sekolah.id, https://b.sekolah.id ,")
	assert.Equal(t, "https://a.sekolah.id, https://b.sekolah.id", got)
}

func TestCorsAllowedOriginsFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, strings.Join(defaultCorsOrigins, ", "), corsAllowedOrigins(""))
	assert.Equal(t, strings.Join(defaultCorsOrigins, ", "), corsAllowedOrigins(" , ,"))
}
