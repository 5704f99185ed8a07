package landcover

import (
	"math"

	"github.com/landcover-microservice/internal/domain"
)

// MetersPerDegree - meters per degree of latitude on a spherical Earth
const MetersPerDegree = 111320

// PixelScale returns the ground area in m² covered by one pixel of an image
// spanning ±bboxHalfWidthDeg around a point at latitude.
func PixelScale(latitude, bboxHalfWidthDeg float64, widthPx, heightPx int) (float64, error) {
	if widthPx <= 0 || heightPx <= 0 {
		return 0, validationError("image dimensions must be positive, got %dx%d", widthPx, heightPx)
	}
	if !(bboxHalfWidthDeg > 0) {
		return 0, validationError("bbox half width must be positive, got %v", bboxHalfWidthDeg)
	}
	if math.IsNaN(latitude) || math.Abs(latitude) > 90 {
		return 0, validationError("latitude out of range: %v", latitude)
	}

	latSpanM := 2 * bboxHalfWidthDeg * MetersPerDegree
	lonSpanM := 2 * bboxHalfWidthDeg * MetersPerDegree * math.Cos(latitude*math.Pi/180)
	areaM2 := latSpanM * lonSpanM
	return areaM2 / float64(widthPx*heightPx), nil
}

// BoundingBox returns the box ±half degrees around (lat, lon).
func BoundingBox(lat, lon, half float64) domain.BoundingBox {
	return domain.BoundingBox{
		MinLat: lat - half,
		MinLon: lon - half,
		MaxLat: lat + half,
		MaxLon: lon + half,
	}
}
