package api

import (
	"errors"
	"net/http"

	"github.com/radio-control/saltybridge/internal/adapter"
)

// writeDomainError maps bridge and host errors to the envelope.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adapter.ErrUnknownCommand), errors.Is(err, adapter.ErrUnknownExport):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, adapter.ErrRestrictedCommand):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, adapter.ErrInvalidArgument):
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, adapter.ErrUnsupported):
		WriteError(w, http.StatusNotImplemented, "UNSUPPORTED", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error",
			map[string]any{"original": err.Error()})
	}
}
