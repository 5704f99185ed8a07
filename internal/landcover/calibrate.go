package landcover

import (
	"fmt"
	"image"
	"sort"

	"github.com/landcover-microservice/internal/domain"
)

// CalibrationOptions - параметры сессии калибровки
type CalibrationOptions struct {
	Profile ProfileOptions
	// CenterFraction crops every sample to its centred fraction before profiling; 0 or 1 keeps it whole
	CenterFraction float64
}

// Calibrate derives one range per class from the supplied samples. Degenerate
// classes fall back to FullRange and are listed in Profile.Warnings. The caller
// assigns ID and CreatedAt.
func Calibrate(samples map[string][]image.Image, opts CalibrationOptions) (*domain.Profile, error) {
	for _, required := range []string{domain.ClassTrees, domain.ClassFields} {
		if len(samples[required]) == 0 {
			return nil, fmt.Errorf("%w: no %q samples", ErrConfiguration, required)
		}
	}
	if err := opts.Profile.Validate(); err != nil {
		return nil, err
	}
	fraction := opts.CenterFraction
	if fraction == 0 {
		fraction = 1
	}

	classes := make([]string, 0, len(samples))
	for name := range samples {
		if !domain.IsKnownClass(name) {
			return nil, validationError("unknown class %q", name)
		}
		classes = append(classes, name)
	}
	sort.Strings(classes)

	profile := &domain.Profile{
		Ranges:         make(domain.Ranges, len(samples)),
		LowPercentile:  opts.Profile.LowPercentile,
		HighPercentile: opts.Profile.HighPercentile,
		Pad:            opts.Profile.Pad,
		CenterFraction: fraction,
		SampleCounts:   make(map[string]int, len(samples)),
	}

	for _, name := range classes {
		imgs := samples[name]
		if len(imgs) == 0 {
			continue
		}
		if fraction < 1 {
			cropped := make([]image.Image, len(imgs))
			for i, img := range imgs {
				c, err := CentralFraction(img, fraction)
				if err != nil {
					return nil, fmt.Errorf("class %q sample %d: %w", name, i, err)
				}
				cropped[i] = c
			}
			imgs = cropped
		}

		res, err := Analyze(imgs, opts.Profile)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", name, err)
		}
		if res.Warning != nil {
			res.Warning.Class = name
			profile.Warnings = append(profile.Warnings, res.Warning.Error())
		}
		profile.Ranges[name] = res.Range
		profile.SampleCounts[name] = res.Samples
	}
	return profile, nil
}
