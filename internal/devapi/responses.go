package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// Wire codes the server emits. They are the codes a real deployment sends,
// not the client's error taxonomy.
const (
	wireCodeValidation         = "VALIDATION_ERROR"
	wireCodeUnauthorized       = "UNAUTHORIZED"
	wireCodeInvalidCredentials = "INVALID_CREDENTIALS"
	wireCodeNotFound           = "NOT_FOUND"
	wireCodeConflict           = "CONFLICT"
	wireCodeInternal           = "INTERNAL"
)

// apiError is a failure with its HTTP status and wire code.
type apiError struct {
	status  int
	code    string
	message string
	details any
	cause   error
}

func (e *apiError) Error() string {
	if e.cause != nil {
		return e.code + ": " + e.message + ": " + e.cause.Error()
	}
	return e.code + ": " + e.message
}

func (e *apiError) Unwrap() error { return e.cause }

func badRequest(message string) *apiError {
	return &apiError{status: http.StatusBadRequest, code: wireCodeValidation, message: message}
}

func unauthorized(message string) *apiError {
	return &apiError{status: http.StatusUnauthorized, code: wireCodeUnauthorized, message: message}
}

func notFound(message string) *apiError {
	return &apiError{status: http.StatusNotFound, code: wireCodeNotFound, message: message}
}

func conflict(message string) *apiError {
	return &apiError{status: http.StatusConflict, code: wireCodeConflict, message: message}
}

func internal(err error) *apiError {
	return &apiError{status: http.StatusInternalServerError, code: wireCodeInternal, message: "unexpected error", cause: err}
}

// fromTyped maps a pkg/errors failure (mostly request validation) onto the wire.
func fromTyped(typed *pkgerrors.Error) *apiError {
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return &apiError{status: http.StatusBadRequest, code: wireCodeValidation, message: typed.Message(), details: typed.Details(), cause: typed}
	case pkgerrors.CodeNotFound:
		return &apiError{status: http.StatusNotFound, code: wireCodeNotFound, message: typed.Message(), cause: typed}
	case pkgerrors.CodeAuthRequired, pkgerrors.CodeSessionExpired:
		return &apiError{status: http.StatusUnauthorized, code: wireCodeUnauthorized, message: typed.Message(), cause: typed}
	case pkgerrors.CodeStateConflict, pkgerrors.CodeNotAvailable, pkgerrors.CodeEmptyCart:
		return &apiError{status: http.StatusConflict, code: wireCodeConflict, message: typed.Message(), cause: typed}
	}
	return internal(typed)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeSuccessStatus(w, http.StatusOK, data)
}

func writeSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	var out *apiError
	if !errors.As(err, &out) {
		if typed := pkgerrors.As(err); typed != nil {
			out = fromTyped(typed)
		} else {
			out = internal(err)
		}
	}

	payload := types.ErrorEnvelope{Error: &types.APIError{
		Code:    out.code,
		Message: out.message,
		Details: out.details,
	}}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error_code": out.code,
			"status":     out.status,
		})
		if out.status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.WarnErr(ctx, "request.rejected", err)
		}
	}

	writeJSON(w, out.status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
