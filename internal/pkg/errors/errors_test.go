package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/landcover"
	apperrors "github.com/landcover-microservice/internal/pkg/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", fmt.Errorf("classify: %w", landcover.ErrValidation), "VALIDATION_ERROR", http.StatusBadRequest},
		{"configuration", fmt.Errorf("x: %w", landcover.ErrConfiguration), "CONFIGURATION_ERROR", http.StatusUnprocessableEntity},
		{"place", fmt.Errorf("geocode Atlantis: %w", domain.ErrPlaceNotFound), "PLACE_NOT_FOUND", http.StatusNotFound},
		{"image", domain.ErrImageUnavailable, "IMAGE_UNAVAILABLE", http.StatusBadGateway},
		{"profile", domain.ErrProfileNotFound, "PROFILE_NOT_FOUND", http.StatusNotFound},
		{"job", domain.ErrJobNotFound, "JOB_NOT_FOUND", http.StatusNotFound},
		{"app error passes through", apperrors.ErrInvalidRequest, "INVALID_REQUEST", http.StatusBadRequest},
		{"unknown", errors.New("boom"), "INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := apperrors.FromError(tt.err)

			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.StatusCode)
		})
	}

	assert.Nil(t, apperrors.FromError(nil))
}

func TestFromError_KeepsClientMessage(t *testing.T) {
	err := fmt.Errorf("geocode Atlantis: %w", domain.ErrPlaceNotFound)

	appErr := apperrors.FromError(err)

	assert.Equal(t, err.Error(), appErr.Message)
	assert.Equal(t, "Place not found", apperrors.ErrPlaceNotFound.Message)
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	detailed := apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"field": "place"})

	assert.Equal(t, "place", detailed.Details["field"])
	assert.Empty(t, apperrors.ErrInvalidRequest.Details)
}
