package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-auth-service/internal/metrics"
	"go-auth-service/internal/model"
)

type tokenVerifier interface {
	Verify(tokenString string, now time.Time) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

// AccessGuard gates protected routes behind bearer token verification. It is
// stateless: each request is checked independently and nothing survives
// across requests.
type AccessGuard struct {
	verifier tokenVerifier
	now      func() time.Time
}

func NewAccessGuard(verifier tokenVerifier) *AccessGuard {
	return &AccessGuard{
		verifier: verifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RequireAuth rejects requests without a valid bearer token. A missing
// credential is 401; a presented-but-rejected credential is 403, with the
// rejection class in the error code.
func (g *AccessGuard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			metrics.RecordTokenVerification("missing")
			writeGuardError(w, http.StatusUnauthorized, "MISSING_TOKEN", "missing or invalid authorization header")
			return
		}

		identity, err := g.verifier.Verify(token, g.now())
		if err != nil {
			code, result := classifyRejection(err)
			metrics.RecordTokenVerification(result)
			writeGuardError(w, http.StatusForbidden, code, "token rejected")
			return
		}

		metrics.RecordTokenVerification("valid")
		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the identity attached by RequireAuth.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	if token == "" {
		return "", false
	}

	return token, true
}

func classifyRejection(err error) (code string, result string) {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return "TOKEN_EXPIRED", "expired"
	case errors.Is(err, model.ErrInvalidSignature):
		return "INVALID_SIGNATURE", "invalid_signature"
	default:
		return "TOKEN_MALFORMED", "malformed"
	}
}

func writeGuardError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
