package domain

import (
	"image"
	"time"
)

type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Place - результат геокодирования по названию места
type Place struct {
	Name       string     `json:"name_of_place"`
	Location   Coordinate `json:"location"`
	ResolvedAs string     `json:"resolved_as,omitempty"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// Photo - спутниковый снимок вместе с геометрией запроса
type Photo struct {
	Image        image.Image `json:"-"`
	PNG          []byte      `json:"-"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	Center       Coordinate  `json:"center"`
	BBox         BoundingBox `json:"bbox"`
	BBoxDelta    float64     `json:"bbox_delta"`
	PixelScaleM2 float64     `json:"pixel_scale_m2"`
}
