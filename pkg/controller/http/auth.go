package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

type userMeResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// authMeHandler returns the user of the request
func authMeHandler(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())
	if token == nil {
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidToken, "no token in context"))
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
		Sub:   token.Sub,
		Email: token.Email,
		Name:  token.Name,
	})
}

func clearCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// authLogoutHandler revokes the token of the request and clears the cookies
func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authUC != nil && !authUC.IsNoAuthn() {
			if token := auth.TokenFromContext(r.Context()); token != nil {
				if err := authUC.RevokeToken(r.Context(), token.ID); err != nil {
					handleError(w, r, goerr.Wrap(err, "failed to logout"))
					return
				}
			}
		}

		http.SetCookie(w, clearCookie(r, tokenIDCookie))
		http.SetCookie(w, clearCookie(r, tokenSecretCookie))

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
