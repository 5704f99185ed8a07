package errors

import (
	"net/http"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/landcover"
)

var (
	ErrValidation = New(
		"VALIDATION_ERROR",
		"Invalid image or analysis parameters",
		http.StatusBadRequest,
	)

	ErrConfiguration = New(
		"CONFIGURATION_ERROR",
		"Calibration profile is incomplete",
		http.StatusUnprocessableEntity,
	)

	ErrPlaceNotFound = New(
		"PLACE_NOT_FOUND",
		"Place not found",
		http.StatusNotFound,
	)

	ErrImageUnavailable = New(
		"IMAGE_UNAVAILABLE",
		"No image available for this place",
		http.StatusBadGateway,
	)

	ErrProfileNotFound = New(
		"PROFILE_NOT_FOUND",
		"Calibration profile not found",
		http.StatusNotFound,
	)

	ErrCalibrationUnavailable = New(
		"CALIBRATION_UNAVAILABLE",
		"No calibration profile loaded",
		http.StatusServiceUnavailable,
	)

	ErrJobNotFound = New(
		"JOB_NOT_FOUND",
		"Job not found",
		http.StatusNotFound,
	)

	ErrDocumentNotFound = New(
		"DOCUMENT_NOT_FOUND",
		"Stored result not found",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

var mappings = []struct {
	target error
	app    *AppError
}{
	{landcover.ErrValidation, ErrValidation},
	{landcover.ErrConfiguration, ErrConfiguration},
	{domain.ErrPlaceNotFound, ErrPlaceNotFound},
	{domain.ErrImageUnavailable, ErrImageUnavailable},
	{domain.ErrProfileNotFound, ErrProfileNotFound},
	{domain.ErrCalibrationUnavailable, ErrCalibrationUnavailable},
	{domain.ErrJobNotFound, ErrJobNotFound},
	{domain.ErrDocumentNotFound, ErrDocumentNotFound},
}
