package http

import (
	"errors"
	"net/http"

	"github.com/triptab/triptab/internal/oauth"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/httpx"
	"github.com/triptab/triptab/pkg/slogx"
)

// writeServiceError maps service-layer sentinels onto the HTTP error
// taxonomy. Anything unrecognized is a logged 500 with a generic body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrLinkConflict):
		httpx.WriteError(w, http.StatusConflict, "provider account already linked to another user")
	case errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
	case errors.Is(err, oauth.ErrNotConfigured):
		httpx.WriteError(w, http.StatusServiceUnavailable, "provider not configured")
	case errors.Is(err, oauth.ErrUnknownProvider):
		httpx.WriteError(w, http.StatusNotFound, "unknown provider")
	case errors.Is(err, oauth.ErrExchangeFailed):
		// Upstream details stay out of the response body.
		httpx.WriteError(w, http.StatusBadRequest, "provider login failed")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
