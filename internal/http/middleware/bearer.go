package middleware

import (
	"net/http"
	"strings"

	"github.com/jmehdipour/notify-relay/internal/credentials"
	"github.com/jmehdipour/notify-relay/internal/metrics"
	"github.com/jmehdipour/notify-relay/internal/model"
	echo "github.com/labstack/echo/v4"
)

const ctxCredential = "credential"

const bearerPrefix = "Bearer "

// InvalidToken is the only 401 body the relay ever sends, whatever the cause.
var InvalidToken = model.Status{Status: http.StatusUnauthorized, Message: "Invalid access token"}

// RecordFromCtx extracts the credential record set by Bearer.
func RecordFromCtx(c echo.Context) (credentials.Record, bool) {
	rec, ok := c.Get(ctxCredential).(credentials.Record)
	return rec, ok
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	tok, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", false
	}
	tok, _, _ = strings.Cut(tok, " ")
	return tok, tok != ""
}

// Bearer authenticates requests using the Authorization header and resolves
// the caller's credential record. A missing, malformed or unknown token all
// produce the same response.
func Bearer(resolver credentials.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject(c)
			}
			rec, ok := resolver.Resolve(tok)
			if !ok {
				return reject(c)
			}
			c.Set(ctxCredential, rec)
			return next(c)
		}
	}
}

func reject(c echo.Context) error {
	metrics.RequestsTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
	return c.JSON(http.StatusUnauthorized, InvalidToken)
}
