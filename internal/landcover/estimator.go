package landcover

import (
	"math"

	"github.com/landcover-microservice/internal/domain"
)

const (
	DefaultTreesPerM2            = 0.02
	DefaultCleanAirForestPercent = 0.2
	// TargetAQI is the upper boundary of the "Good" category
	TargetAQI = 50
	// SquareMetersPerHectare converts m² to ha
	SquareMetersPerHectare = 10000
)

// EstimateInput carries the masks and parameters of one estimation.
type EstimateInput struct {
	Trees  *Mask
	Fields *Mask
	Roads  *Mask

	PixelToM2 float64
	// TreesPerM2 must be positive to plant anything; 0 means DefaultTreesPerM2.
	TreesPerM2 float64
	// CleanAirForestPercent is the target coverage fraction in [0, 1]; nil means
	// DefaultCleanAirForestPercent. An explicit 0 disables planting under the coverage policy.
	CleanAirForestPercent *float64

	Pollution *domain.AirQualityReading
	Policy    domain.PlantingPolicy
}

// Estimate converts mask pixel counts into areas, coverage and a planting recommendation.
// Zero-area inputs yield a zero report, never an error.
func Estimate(in EstimateInput) (*domain.Report, error) {
	if in.Trees == nil || in.Fields == nil {
		return nil, validationError("trees and fields masks are required")
	}
	if !in.Trees.SameShape(in.Fields) {
		return nil, validationError("mask shapes differ: trees %dx%d, fields %dx%d",
			in.Trees.Width, in.Trees.Height, in.Fields.Width, in.Fields.Height)
	}
	if in.Roads != nil && !in.Roads.SameShape(in.Trees) {
		return nil, validationError("mask shapes differ: trees %dx%d, roads %dx%d",
			in.Trees.Width, in.Trees.Height, in.Roads.Width, in.Roads.Height)
	}
	if !(in.PixelToM2 > 0) || math.IsInf(in.PixelToM2, 0) {
		return nil, validationError("pixel scale must be positive, got %v", in.PixelToM2)
	}
	target := DefaultCleanAirForestPercent
	if in.CleanAirForestPercent != nil {
		target = *in.CleanAirForestPercent
	}
	if in.TreesPerM2 < 0 || math.IsNaN(target) || target < 0 || target > 1 {
		return nil, validationError("invalid density %v or target coverage %v", in.TreesPerM2, target)
	}
	density := in.TreesPerM2
	if density == 0 {
		density = DefaultTreesPerM2
	}
	policy := in.Policy
	if policy == "" {
		policy = domain.PolicyAuto
	}
	if _, ok := domain.ParsePlantingPolicy(string(policy)); !ok {
		return nil, validationError("unknown planting policy %q", policy)
	}

	forestM2 := float64(in.Trees.Count()) * in.PixelToM2
	fieldsM2 := float64(in.Fields.Count()) * in.PixelToM2
	totalM2 := float64(in.Trees.Width*in.Trees.Height) * in.PixelToM2
	existing := int(forestM2 * density)

	coverage := 0.0
	if totalM2 > 0 {
		coverage = forestM2 / totalM2
	}

	report := &domain.Report{
		Width:                 in.Trees.Width,
		Height:                in.Trees.Height,
		PixelScaleM2:          in.PixelToM2,
		Trees:                 classArea(in.Trees, in.PixelToM2),
		Fields:                classArea(in.Fields, in.PixelToM2),
		TotalAreaM2:           round(totalM2, 2),
		ForestCoveragePercent: round(coverage*100, 2),
		TargetCoverage:        target,
	}
	report.Trees.EstimatedTrees = &existing
	if in.Roads != nil {
		roads := classArea(in.Roads, in.PixelToM2)
		report.Roads = &roads
	}

	reading := in.Pollution
	if reading.HasIndex() {
		report.Pollution = &domain.PollutionSummary{
			CurrentAQI: *reading.AQI,
			Category:   reading.Category,
			TargetAQI:  TargetAQI,
			SubIndices: reading.SubIndices,
		}
	}

	if policy == domain.PolicyAuto {
		policy = domain.PolicyCoverage
		if reading.HasIndex() {
			policy = domain.PolicyAQI
		}
	}
	report.Policy = policy

	var plant int
	switch policy {
	case domain.PolicyCoverage:
		// no field area means nowhere to plant
		if coverage < target && fieldsM2 > 0 {
			required := target * totalM2 * density
			plant = nonNegative(math.Round(required - float64(existing)))
		}
	case domain.PolicyAQI:
		if reading.HasIndex() && *reading.AQI > TargetAQI && fieldsM2 > 0 {
			plant = nonNegative(math.Round(float64(existing) * (float64(*reading.AQI)/TargetAQI - 1)))
		}
	}

	report.TreesToPlant = plant
	if fieldsM2 > 0 {
		report.PlantingDensityM2 = round(float64(plant)/fieldsM2, 4)
	}
	return report, nil
}

func classArea(m *Mask, scale float64) domain.ClassArea {
	px := m.Count()
	m2 := float64(px) * scale
	return domain.ClassArea{
		Pixels:       px,
		AreaM2:       round(m2, 2),
		AreaHectares: round(m2/SquareMetersPerHectare, 4),
	}
}

func nonNegative(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
