package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecker_IsTrusted(t *testing.T) {
	c := NewChecker([]string{"Example.com", "  intranet.corp  ", ""}, nil)

	assert.True(t, c.IsTrusted("example.com"))
	assert.True(t, c.IsTrusted("EXAMPLE.COM"))
	assert.True(t, c.IsTrusted("intranet.corp"))

	// Exact match only; subdomains are not implied.
	assert.False(t, c.IsTrusted("sub.example.com"))
	assert.False(t, c.IsTrusted("example.com.evil.test"))
	assert.False(t, c.IsTrusted(""))
}

func TestChecker_EmptyList(t *testing.T) {
	c := NewChecker(nil, nil)
	assert.False(t, c.IsTrusted("example.com"))
}
