package warning

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleWarning_RendersURLAndReason(t *testing.T) {
	s := NewServer("127.0.0.1:0", zap.NewNop())

	req := httptest.NewRequest("GET", "/warning?url=http%3A%2F%2Fbad.test&reason=known+blacklist", nil)
	rec := httptest.NewRecorder()
	s.handleWarning(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http://bad.test")
	assert.Contains(t, body, "known blacklist")
}

func TestHandleWarning_EscapesMarkup(t *testing.T) {
	s := NewServer("127.0.0.1:0", zap.NewNop())

	req := httptest.NewRequest("GET", "/warning?reason=%3Cscript%3Ealert(1)%3C%2Fscript%3E", nil)
	rec := httptest.NewRecorder()
	s.handleWarning(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestServerURL(t *testing.T) {
	s := NewServer("127.0.0.1:8790", zap.NewNop())
	assert.Equal(t, "http://127.0.0.1:8790/warning", s.URL())
}
