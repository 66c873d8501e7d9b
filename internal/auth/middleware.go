package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// RevocationChecker reports whether a token identifier has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AccountChecker reports whether the user a token was issued to still exists.
type AccountChecker interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// Messages returned by the middleware.
const (
	MsgMissingHeader = "Missing Authorization Header"
	MsgInvalidToken  = "Invalid token"
	MsgRevokedToken  = "You must be logged in to access this page"
)

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// Middleware protects routes: it requires a valid bearer token whose jti is
// not on the blacklist and whose subject is an existing user.
func Middleware(tokens *TokenManager, revoked RevocationChecker, accounts AccountChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, MsgMissingHeader)
				return
			}

			claims, err := tokens.Validate(tokenStr)
			if err != nil {
				log.Debug().Err(err).Msg("Rejected auth token")
				unauthorized(w, MsgInvalidToken)
				return
			}

			isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Str("jti", claims.ID).Msg("Failed to check token blacklist")
				writeMessage(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if isRevoked {
				unauthorized(w, MsgRevokedToken)
				return
			}

			// Validate guarantees a numeric subject.
			userID, _ := claims.UserID()
			exists, err := accounts.UserExists(r.Context(), userID)
			if err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("Failed to look up token subject")
				writeMessage(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !exists {
				unauthorized(w, MsgRevokedToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeMessage(w, http.StatusUnauthorized, msg)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
