package landcover

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - malformed or empty image, mismatched dimensions, bad options
	ErrValidation = errors.New("validation error")

	// ErrConfiguration - missing required class range
	ErrConfiguration = errors.New("configuration error")
)

// DegenerateInputWarning is reported when a calibration sample has no pixel
// brighter than the dark-pixel threshold. It is not fatal: the full-domain
// range is used instead.
type DegenerateInputWarning struct {
	Class   string
	Samples int
}

func (w *DegenerateInputWarning) Error() string {
	if w.Class == "" {
		return fmt.Sprintf("calibration samples (%d) contain no pixels above the dark threshold, using full range", w.Samples)
	}
	return fmt.Sprintf("calibration samples for %q (%d) contain no pixels above the dark threshold, using full range", w.Class, w.Samples)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
