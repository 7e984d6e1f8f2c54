// Package auth provides bearer-token authentication middleware for the API server.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// RFC 6750 Section 3 error codes
const (
	// errorCodeInvalidRequest indicates the request includes a malformed
	// authorization header.
	errorCodeInvalidRequest = "invalid_request"

	// errorCodeInvalidToken indicates the access token provided is expired,
	// revoked, malformed, or invalid for other reasons.
	errorCodeInvalidToken = "invalid_token"
)

// defaultRealm is the default protection space identifier
const defaultRealm = "parley"

var (
	errMalformedHeader = errors.New("malformed authorization header")
	errMissingSubject  = errors.New("token has no usable subject claim")
)

// Middleware resolves the caller identity from an optional bearer token.
//
// Requests without an Authorization header pass through as anonymous; the
// listing endpoint is usable without credentials until an auth-requiring
// filter is requested. A present but invalid token is rejected with 401 so
// that a caller holding a stale token is never silently downgraded to
// anonymous.
type Middleware struct {
	secret []byte
	issuer string
	realm  string
}

// Option configures the authentication middleware.
type Option func(*Middleware)

// WithRealm sets the protection space identifier used in WWW-Authenticate headers.
func WithRealm(realm string) Option {
	return func(m *Middleware) {
		m.realm = realm
	}
}

// WithIssuer requires tokens to carry the given issuer claim.
func WithIssuer(issuer string) Option {
	return func(m *Middleware) {
		m.issuer = issuer
	}
}

// NewMiddleware creates an authentication middleware validating HMAC-signed
// JWTs with the given secret.
func NewMiddleware(secret []byte, opts ...Option) (*Middleware, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}

	m := &Middleware{
		secret: secret,
		realm:  defaultRealm,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Handler returns an HTTP middleware that stores the caller identity in the
// request context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Anonymous())))
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			slog.Warn("Token extraction failed",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path)
			m.writeError(w, http.StatusUnauthorized, errorCodeInvalidRequest, "missing or malformed authorization header")
			return
		}

		identity, err := m.validateToken(token)
		if err != nil {
			slog.Warn("Token validation failed",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path)
			m.writeError(w, http.StatusUnauthorized, errorCodeInvalidToken, "token validation failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// extractBearerToken extracts the token from an Authorization header value.
func extractBearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMalformedHeader
	}
	return token, nil
}

// validateToken parses and validates the token and resolves the caller identity.
// The subject claim carries the numeric user ID.
func (m *Middleware) validateToken(token string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return Anonymous(), fmt.Errorf("failed to parse token: %w", err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return Anonymous(), errMissingSubject
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return Anonymous(), fmt.Errorf("%w: %q", errMissingSubject, subject)
	}

	return Identity{UserID: userID, Authenticated: true}, nil
}

// sanitizeHeaderValue removes characters that could enable header injection attacks.
func sanitizeHeaderValue(s string) string {
	if !strings.ContainsAny(s, "\r\n\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// writeError writes a JSON error response with an RFC 6750 compliant
// WWW-Authenticate header.
func (m *Middleware) writeError(w http.ResponseWriter, status int, errCode, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="%s", error="%s", error_description="%s"`,
		sanitizeHeaderValue(m.realm), errCode, sanitizeHeaderValue(description)))
	w.WriteHeader(status)

	resp := struct {
		Error string `json:"error"`
	}{
		Error: description,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
