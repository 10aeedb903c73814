package httpx

import (
	"errors"
	"net/http"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Anything outside the
// known taxonomy is an infrastructure failure and stays generic on the wire.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrMissingTenant):
		Problem(w, http.StatusBadRequest, "Tenant ID Required", err.Error())
	case errors.Is(err, shared.ErrTenantNotFound):
		Problem(w, http.StatusForbidden, "Tenant Not Found", err.Error())
	case errors.Is(err, shared.ErrTenantInactive):
		Problem(w, http.StatusForbidden, "Tenant Inactive", err.Error())
	case errors.Is(err, shared.ErrAuthentication):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
