package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenCookie is read when a request carries no Authorization header.
const TokenCookie = "optionspage_token"

// Authorizer decides whether a request may use a capability.
type Authorizer interface {
	Can(r *http.Request, capability string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(r *http.Request, capability string) bool

func (fn AuthorizerFunc) Can(r *http.Request, capability string) bool {
	return fn(r, capability)
}

// AllowAll grants every capability.
var AllowAll Authorizer = AuthorizerFunc(func(*http.Request, string) bool { return true })

// TokenAuthorizer grants Capabilities to requests presenting Token as a
// bearer token or in the TokenCookie cookie. A blank Token grants them to
// every request.
type TokenAuthorizer struct {
	Token        string
	Capabilities []string
}

func (a TokenAuthorizer) Can(r *http.Request, capability string) bool {
	if a.Token != "" && !a.authenticated(r) {
		return false
	}
	for _, granted := range a.Capabilities {
		if granted == capability {
			return true
		}
	}
	return false
}

func (a TokenAuthorizer) authenticated(r *http.Request) bool {
	presented := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		presented = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	} else if cookie, err := r.Cookie(TokenCookie); err == nil {
		presented = cookie.Value
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(a.Token)) == 1
}
