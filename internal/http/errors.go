package httpx

import (
	"errors"
	"net/http"

	apperrors "github.com/centralhub/hub-core/internal/errors"
)

var errAuthRequired = errors.New("authentication required")

// WriteAppError maps an application error to an HTTP status and writes the
// JSON error body. Unknown errors collapse to a generic 500 so internals
// never leak to clients.
func WriteAppError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	errCode := apperrors.GetCode(err)
	if errCode == "" || code == http.StatusInternalServerError {
		errCode = apperrors.ErrCodeInternal
		err = errors.New("internal server error")
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: string(errCode), Err: err})
}

func statusForError(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsInvalidCredentials(err), apperrors.IsSessionInvalid(err), apperrors.IsTokenInvalid(err):
		return http.StatusUnauthorized
	case apperrors.IsAccessDenied(err), apperrors.IsUserInactive(err):
		return http.StatusForbidden
	case apperrors.IsNotFound(err), apperrors.IsModuleNotFound(err):
		return http.StatusNotFound
	case apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsStorageUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
