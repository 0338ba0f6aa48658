package http

import (
	"net/http"
	"strings"

	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
)

const (
	tokenIDCookie     = "token_id"
	tokenSecretCookie = "token_secret"
)

// credentials reads the token from the cookies, falling back to an
// "Authorization: Bearer <id>.<secret>" header
func credentials(r *http.Request) (auth.TokenID, auth.TokenSecret, bool) {
	if id, err := r.Cookie(tokenIDCookie); err == nil {
		if secret, err := r.Cookie(tokenSecretCookie); err == nil {
			return auth.TokenID(id.Value), auth.TokenSecret(secret.Value), true
		}
	}

	header := r.Header.Get("Authorization")
	bearer, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", "", false
	}
	id, secret, ok := strings.Cut(strings.TrimSpace(bearer), ".")
	if !ok || id == "" || secret == "" {
		return "", "", false
	}
	return auth.TokenID(id), auth.TokenSecret(secret), true
}

// authMiddleware validates authentication for protected requests
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				ctx := auth.ContextWithToken(r.Context(), auth.NewAnonymousUser())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// NoAuthn mode ignores the credentials and returns the configured user
			if authUC.IsNoAuthn() {
				token, err := authUC.ValidateToken(r.Context(), "", "")
				if err != nil {
					handleError(w, r, err)
					return
				}
				next.ServeHTTP(w, r.WithContext(auth.ContextWithToken(r.Context(), token)))
				return
			}

			tokenID, tokenSecret, ok := credentials(r)
			if !ok {
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
				return
			}

			token, err := authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
			if err != nil {
				handleError(w, r, err)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
