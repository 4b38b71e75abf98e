package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/skill-validator/internal/analysis"
	"github.com/jonathan/skill-validator/internal/ingestion"
	"github.com/stretchr/testify/assert"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "skills", Message: "too many skills"}
	assert.Equal(t, "validation error: skills - too many skills", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"request validation", &ErrValidation{Field: "job_url", Message: "must be a URL"}, http.StatusBadRequest},
		{"invalid analysis input", &analysis.InvalidInputError{Field: "resume_text", Message: "resume text is required"}, http.StatusBadRequest},
		{"body too large", fmt.Errorf("read: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge},
		{"unsupported type", fmt.Errorf("%w: %q", ingestion.ErrUnsupportedType, "rtf"), http.StatusUnsupportedMediaType},
		{"empty document", &ingestion.ExtractionError{Type: ingestion.TypePDF, Cause: ingestion.ErrEmptyDocument}, http.StatusUnprocessableEntity},
		{"malformed document", &ingestion.ExtractionError{Type: ingestion.TypeDOCX, Cause: ingestion.ErrMalformedDocument}, http.StatusUnprocessableEntity},
		{"job posting fetch", fmt.Errorf("%w: timeout", ingestion.ErrHTTPRequestFailed), http.StatusBadGateway},
		{"deadline", fmt.Errorf("analysis cancelled: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
