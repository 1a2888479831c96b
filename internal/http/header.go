package http

import (
	"net/http"
	"strings"

	"server-runner/internal/auth"
)

const (
	headerRequestID     = "x-request-id"
	headerContentType   = "content-type"
	headerAuthorization = "authorization"
	headerUserAgent     = "user-agent"
	headerCacheControl  = "cache-control"
	headerConnection    = "connection"

	headerAllowOrigin  = "access-control-allow-origin"
	headerAllowMethods = "access-control-allow-methods"
	headerAllowHeaders = "access-control-allow-headers"

	contentTypeJSON        = "application/json"
	contentTypeEventStream = "text/event-stream"

	bearerPrefix = "Bearer "
)

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

func setRequestID(r *http.Request, requestID string) {
	r.Header.Set(headerRequestID, requestID)
}

func contentType(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerContentType))
}

func userAgent(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerUserAgent))
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get(headerAuthorization))
	if value == "" {
		return "", auth.ErrMissingAuthorization()
	}
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", auth.ErrMalformedAuthorization()
	}
	token := strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return "", auth.ErrMalformedAuthorization()
	}
	return token, nil
}

func setBearerToken(w http.ResponseWriter, token string) {
	w.Header().Set(headerAuthorization, bearerPrefix+token)
}
