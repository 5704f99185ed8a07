package dto

import (
	"image"

	"github.com/landcover-microservice/internal/domain"
)

// CalibrationRequest - эталонные снимки по классам и параметры профилирования
type CalibrationRequest struct {
	Name           string                   `json:"name" validate:"max=100"`
	Samples        map[string][]image.Image `json:"-" validate:"required,min=1,dive,keys,landcover_class,endkeys,min=1"`
	LowPercentile  *float64                 `json:"low_percentile,omitempty" validate:"omitempty,percentile"`
	HighPercentile *float64                 `json:"high_percentile,omitempty" validate:"omitempty,percentile"`
	Pad            []int                    `json:"pad,omitempty" validate:"omitempty,len=3,dive,min=0,max=255"`
	CenterFraction float64                  `json:"center_fraction,omitempty" validate:"omitempty,gt=0,max=1"`
	Activate       bool                     `json:"activate,omitempty"`
}

// ProfileListResponse - список профилей калибровки
type ProfileListResponse struct {
	Profiles []*domain.Profile `json:"profiles"`
	ActiveID string            `json:"active_id,omitempty"`
}
