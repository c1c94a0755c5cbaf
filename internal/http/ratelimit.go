package http

import (
	"net/http"
	"strconv"
	"time"
)

// Informational rate-limit headers. These are fixed placeholders; the relay
// does not count requests.
const (
	rateLimitLimit     = 1000
	rateLimitRemaining = 1000
	rateLimitWindow    = 60 * time.Second

	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

func setRateLimitHeaders(h http.Header, now time.Time) {
	h.Set(headerRateLimitLimit, strconv.Itoa(rateLimitLimit))
	h.Set(headerRateLimitRemaining, strconv.Itoa(rateLimitRemaining))
	h.Set(headerRateLimitReset, strconv.FormatInt(now.Add(rateLimitWindow).Unix(), 10))
}
