package domain

import (
	"image"
	"time"
)

// PlantingPolicy selects how trees_to_plant is derived
type PlantingPolicy string

const (
	// PolicyAuto uses the AQI target when a reading is available, otherwise the coverage target
	PolicyAuto     PlantingPolicy = "auto"
	PolicyCoverage PlantingPolicy = "coverage"
	PolicyAQI      PlantingPolicy = "aqi"
)

// ParsePlantingPolicy maps a configuration string to a policy; empty means auto.
func ParsePlantingPolicy(s string) (PlantingPolicy, bool) {
	switch PlantingPolicy(s) {
	case "", PolicyAuto:
		return PolicyAuto, true
	case PolicyCoverage:
		return PolicyCoverage, true
	case PolicyAQI:
		return PolicyAQI, true
	}
	return "", false
}

// AirQualityReading - показания качества воздуха от внешнего API
type AirQualityReading struct {
	AQI        *int               `json:"aqi,omitempty"`
	Category   string             `json:"category"`
	SubIndices map[string]float64 `json:"sub_indices,omitempty"`
	Station    string             `json:"station,omitempty"`
	MeasuredAt time.Time          `json:"measured_at,omitempty"`
}

// HasIndex reports whether the reading carries a numeric index.
func (r *AirQualityReading) HasIndex() bool {
	return r != nil && r.AQI != nil
}

// ClassArea - площадь одного класса покрытия
type ClassArea struct {
	Pixels         int     `json:"pixels"`
	AreaM2         float64 `json:"area_m2"`
	AreaHectares   float64 `json:"area_hectares"`
	EstimatedTrees *int    `json:"estimated_trees,omitempty"`
}

// PollutionSummary - часть отчёта, посчитанная по политике AQI
type PollutionSummary struct {
	CurrentAQI int                `json:"current_aqi"`
	Category   string             `json:"category"`
	TargetAQI  int                `json:"target_aqi"`
	SubIndices map[string]float64 `json:"sub_indices,omitempty"`
}

// TileSummary - счётчики пикселей по ячейке сетки
type TileSummary struct {
	Col          int             `json:"col"`
	Row          int             `json:"row"`
	Bounds       image.Rectangle `json:"bounds"`
	TreesPixels  int             `json:"trees_pixels"`
	FieldsPixels int             `json:"fields_pixels"`
	RoadsPixels  int             `json:"roads_pixels,omitempty"`
}

// Report - количественный результат классификации (LandCoverReport)
type Report struct {
	Place                 string            `json:"place,omitempty"`
	Center                *Coordinate       `json:"center,omitempty"`
	ProfileID             string            `json:"profile_id,omitempty"`
	Width                 int               `json:"width"`
	Height                int               `json:"height"`
	PixelScaleM2          float64           `json:"pixel_scale_m2"`
	Trees                 ClassArea         `json:"trees"`
	Fields                ClassArea         `json:"fields"`
	Roads                 *ClassArea        `json:"roads,omitempty"`
	TotalAreaM2           float64           `json:"total_area_m2"`
	ForestCoveragePercent float64           `json:"forest_coverage_percent"`
	TargetCoverage        float64           `json:"target_coverage"`
	TreesToPlant          int               `json:"trees_to_plant_for_clean_air"`
	PlantingDensityM2     float64           `json:"planting_density_m2"`
	Policy                PlantingPolicy    `json:"policy"`
	Pollution             *PollutionSummary `json:"pollution,omitempty"`
	Tiles                 []TileSummary     `json:"tiles,omitempty"`
	GeneratedAt           time.Time         `json:"generated_at"`
}

// AQICategory возвращает категорию US EPA для индекса
func AQICategory(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}
