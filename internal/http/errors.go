package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

// statusForError maps an application error to the HTTP status a page should
// carry when rendering it.
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case apperrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	case apperrors.IsConflict(err), apperrors.IsForeignKey(err):
		return http.StatusConflict
	case apperrors.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case apperrors.IsRemote(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrorsFor turns a field-scoped validation error into the form error map
// the templates read. Errors without a field go under "_".
func fieldErrorsFor(err error) map[string]string {
	if err == nil || !apperrors.IsValidation(err) {
		return nil
	}
	field := apperrors.GetField(err)
	if field == "" {
		field = "_"
	}
	return map[string]string{field: apperrors.UserMessage(err)}
}

// writeHTTPError writes a JSON error for non-page endpoints.
func writeHTTPError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	WriteError(w, ErrorParams{Code: status, ErrCode: string(apperrors.GetCode(err)), Err: errors.New(apperrors.UserMessage(err))})
}
