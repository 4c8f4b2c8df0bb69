package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

const (
	challenge       = "Basic"
	unauthBody      = "Authentication required"
	unauthCType     = "text/plain; charset=utf-8"
	headerAuthz     = "Authorization"
	headerChallenge = "WWW-Authenticate"
)

// ErrEmptyCredentials is returned when the expected username or password is empty.
var ErrEmptyCredentials = errors.New("auth: expected username and password must both be set")

// Credentials is a username/password pair.
type Credentials struct {
	Username string
	Password string
}

// ParseAuthorization decodes the credentials carried by an Authorization
// header value of the form "Basic <base64(user:password)>". The scheme token
// is not inspected. A missing payload, bad base64 or a payload without a
// colon all yield zero Credentials.
func ParseAuthorization(header string) Credentials {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return Credentials{}
	}
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return Credentials{}
	}
	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Credentials{}
	}
	return Credentials{Username: user, Password: pass}
}

// Gate admits only requests carrying exactly the expected credentials.
// It is immutable after NewGate and safe for concurrent use.
type Gate struct {
	expected Credentials
}

// NewGate returns a Gate for the expected pair. Both fields must be non-empty.
func NewGate(expected Credentials) (*Gate, error) {
	if expected.Username == "" || expected.Password == "" {
		return nil, ErrEmptyCredentials
	}
	return &Gate{expected: expected}, nil
}

// Check reports whether r carries the expected credentials.
func (g *Gate) Check(r *http.Request) bool {
	// a zero Gate never admits anything
	if g == nil || g.expected.Username == "" || g.expected.Password == "" {
		return false
	}
	given := ParseAuthorization(r.Header.Get(headerAuthz))
	userOK := subtle.ConstantTimeCompare([]byte(given.Username), []byte(g.expected.Username))
	passOK := subtle.ConstantTimeCompare([]byte(given.Password), []byte(g.expected.Password))
	return userOK&passOK == 1
}

// RequireAuth writes the 401 challenge response.
func (g *Gate) RequireAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(headerChallenge, challenge)
	w.Header().Set("Content-Type", unauthCType)
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(unauthBody))
}

// Middleware forwards authenticated requests to next unchanged and answers
// everything else with RequireAuth.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Check(r) {
			g.RequireAuth(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BasicAuthMiddleware wraps next with a Gate for the expected pair.
func BasicAuthMiddleware(expected Credentials, next http.Handler) (http.Handler, error) {
	g, err := NewGate(expected)
	if err != nil {
		return nil, err
	}
	return g.Middleware(next), nil
}
