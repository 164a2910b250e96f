package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "mobile-mcp"
	keyringUser    = "api-token"
)

// StoreToken saves the bearer token protecting the network transports.
func StoreToken(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

// StoredToken returns the configured bearer token, empty when none is
// stored.
func StoredToken() string {
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		return ""
	}
	return token
}

// DeleteToken removes the stored bearer token.
func DeleteToken() error {
	return keyring.Delete(keyringService, keyringUser)
}

// bearerAuthMiddleware requires "Authorization: Bearer <token>" on every
// request when a token is stored. Without one the transports stay open,
// which is fine for localhost use.
func bearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := StoredToken()
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
