package auth

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates JWTs issued by the auth provider using its JWKS
// endpoint. The key set is fetched lazily on first use and cached for
// the lifetime of the process.
type Verifier struct {
	baseURL string

	once sync.Once
	jwks keyfunc.Keyfunc
	err  error
}

// NewVerifier creates a Verifier for the given auth base URL
// (e.g. from AUTH_BASE_URL). The JWKS endpoint is derived as
// baseURL + "/.well-known/jwks.json".
func NewVerifier(baseURL string) *Verifier {
	return &Verifier{baseURL: baseURL}
}

func (v *Verifier) keyfunc() (keyfunc.Keyfunc, error) {
	v.once.Do(func() {
		v.jwks, v.err = keyfunc.NewDefault([]string{v.baseURL + "/.well-known/jwks.json"})
	})
	return v.jwks, v.err
}

// Validate checks the token signature and issuer and returns its claims.
func (v *Verifier) Validate(tokenString string) (jwt.MapClaims, error) {
	if v.baseURL == "" {
		return nil, fmt.Errorf("AUTH_BASE_URL is not set")
	}
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth base URL: %w", err)
	}
	expectedIssuer := u.Scheme + "://" + u.Host

	jwks, err := v.keyfunc()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, jwks.Keyfunc,
		jwt.WithIssuer(expectedIssuer),
		jwt.WithValidMethods([]string{"EdDSA", "RS256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Identity resolves the token to a user id and display name. Used as
// the websocket authenticator in main.
func (v *Verifier) Identity(tokenString string) (userID, name string, err error) {
	claims, err := v.Validate(tokenString)
	if err != nil {
		return "", "", err
	}
	userID = UserIDFromClaims(claims)
	if userID == "" {
		return "", "", fmt.Errorf("token has no subject")
	}
	return userID, DisplayNameFromClaims(claims), nil
}

// DisplayNameFromClaims returns the "name" claim, or a fallback.
func DisplayNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Player"
	}
	return trimmed
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
