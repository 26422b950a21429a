package server

import (
	"errors"
	"net/http"

	"github.com/mbaxter/reeltaste/internal/pipeline"
)

// HTTPStatus returns the appropriate HTTP status code for a pipeline error.
// Unknown errors are internal: collaborator failures already degrade inside
// the pipeline, so whatever reaches here was unexpected.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNoUsername):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrInsufficientTaste), errors.Is(err, pipeline.ErrNoCandidates):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrMissingCredentials):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
