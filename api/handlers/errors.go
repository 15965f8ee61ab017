// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	coreerrors "github.com/Lucasff16/arxiv-api-backend/core/errors"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *coreerrors.ValidationError
	if errors.As(err, &validationErr) {
		return huma.Error400BadRequest(fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}

	var upstreamErr *coreerrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		if upstreamErr.StatusCode == http.StatusTooManyRequests {
			return huma.Error429TooManyRequests("Rate limited by arXiv, retry later")
		}
		return huma.Error500InternalServerError("Error searching arXiv: " + upstreamErr.Error())
	}

	if coreerrors.IsFormat(err) {
		return huma.Error500InternalServerError("Error searching arXiv: unreadable response", err)
	}

	return huma.Error500InternalServerError("Internal server error", err)
}
