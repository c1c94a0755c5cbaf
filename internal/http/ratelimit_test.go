package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The values are static placeholders until real limiting exists.
func TestSetRateLimitHeaders_Placeholders(t *testing.T) {
	h := http.Header{}
	setRateLimitHeaders(h, time.Unix(1_700_000_000, 0))

	assert.Equal(t, "1000", h.Get("X-RateLimit-Limit"))
	assert.Equal(t, "1000", h.Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1700000060", h.Get("X-RateLimit-Reset"))
}
