package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/errutil"
)

// maxBodySize bounds request bodies
const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrTokenExpired):
		return http.StatusUnauthorized
	case usecase.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrDuplicateServiceName):
		return http.StatusConflict
	case usecase.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

// decodeJSON reads the body into dst and runs struct validation
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return goerr.Wrap(usecase.ErrValidation, "invalid JSON body: "+err.Error())
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return goerr.Wrap(usecase.ErrValidation, "invalid field "+first.Field()+": "+first.Tag(),
				goerr.V("field", first.Namespace()), goerr.V("rule", first.Tag()))
		}
		return goerr.Wrap(usecase.ErrValidation, err.Error())
	}
	return nil
}
