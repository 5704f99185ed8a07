package dto

import (
	"github.com/landcover-microservice/internal/domain"
)

// AnalyzePlaceRequest - запрос на анализ места по названию
type AnalyzePlaceRequest struct {
	Place     string `json:"place" validate:"required,min=1,max=200"`
	ProfileID string `json:"profile_id,omitempty" validate:"omitempty,max=64"`
	Policy    string `json:"policy,omitempty" validate:"omitempty,planting_policy"`
	Refresh   bool   `json:"refresh,omitempty"`
	TileCols  int    `json:"tile_cols,omitempty" validate:"omitempty,min=1,max=32"`
	TileRows  int    `json:"tile_rows,omitempty" validate:"omitempty,min=1,max=32"`
}

// AnalyzeImageRequest - анализ загруженного снимка; масштаб задаётся напрямую или через широту и bbox
type AnalyzeImageRequest struct {
	PixelM2       float64  `json:"pixel_m2,omitempty" validate:"omitempty,gt=0"`
	Lat           *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	BBoxHalfWidth float64  `json:"bbox_half_width,omitempty" validate:"omitempty,gt=0,max=1"`
	AQI           *int     `json:"aqi,omitempty" validate:"omitempty,min=0,max=1000"`
	ProfileID     string   `json:"profile_id,omitempty" validate:"omitempty,max=64"`
	Policy        string   `json:"policy,omitempty" validate:"omitempty,planting_policy"`
	TileCols      int      `json:"tile_cols,omitempty" validate:"omitempty,min=1,max=32"`
	TileRows      int      `json:"tile_rows,omitempty" validate:"omitempty,min=1,max=32"`
}

// ScaleRequest - параметры для расчёта площади пикселя
type ScaleRequest struct {
	Lat           float64 `json:"lat" query:"lat" validate:"min=-90,max=90"`
	BBoxHalfWidth float64 `json:"bbox_half_width" query:"bbox_half_width" validate:"required,gt=0,max=1"`
	Width         int     `json:"width" query:"width" validate:"required,min=1,max=10000"`
	Height        int     `json:"height" query:"height" validate:"required,min=1,max=10000"`
}

// ScaleResponse - площадь одного пикселя
type ScaleResponse struct {
	PixelM2     float64 `json:"pixel_m2"`
	TotalAreaM2 float64 `json:"total_area_m2"`
}

// ReportSummary - краткая сводка для CLI, веба и бота
type ReportSummary struct {
	Region                string  `json:"region"`
	ForestHectares        float64 `json:"forest_hectares"`
	FieldsHectares        float64 `json:"fields_hectares"`
	ForestCoveragePercent float64 `json:"forest_coverage_percent"`
	TreesToPlant          int     `json:"trees_to_plant"`
	PlantingDensityM2     float64 `json:"planting_density_m2"`
	Policy                string  `json:"policy"`
	CurrentAQI            *int    `json:"current_aqi,omitempty"`
}

// AnalysisResponse - ответ на анализ
type AnalysisResponse struct {
	Report        *domain.Report `json:"report"`
	Summary       ReportSummary  `json:"summary"`
	OverlayBase64 string         `json:"overlay_png_base64,omitempty"`
}

// NewReportSummary собирает сводку из отчёта
func NewReportSummary(r *domain.Report) ReportSummary {
	s := ReportSummary{
		Region:                r.Place,
		ForestHectares:        r.Trees.AreaHectares,
		FieldsHectares:        r.Fields.AreaHectares,
		ForestCoveragePercent: r.ForestCoveragePercent,
		TreesToPlant:          r.TreesToPlant,
		PlantingDensityM2:     r.PlantingDensityM2,
		Policy:                string(r.Policy),
	}
	if r.Pollution != nil {
		aqi := r.Pollution.CurrentAQI
		s.CurrentAQI = &aqi
	}
	return s
}
