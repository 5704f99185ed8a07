package domain

import "errors"

var (
	ErrPlaceNotFound          = errors.New("place not found")
	ErrImageUnavailable       = errors.New("no image available")
	ErrProfileNotFound        = errors.New("calibration profile not found")
	ErrAirQualityUnavailable  = errors.New("air quality reading unavailable")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrCalibrationUnavailable = errors.New("no calibration profile loaded")
	ErrJobNotFound            = errors.New("job not found")
)
