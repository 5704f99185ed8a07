package utils

import (
	"math"
	"strings"
	"unicode"
)

const earthRadiusKm = 6371.0

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateBBoxHalfWidth - половина ширины bbox в градусах (0 < d <= 1)
func ValidateBBoxHalfWidth(deg float64) bool {
	return deg > 0 && deg <= 1
}

// NormalizePlace приводит название места к ключу хранилища: нижний регистр,
// пробелы схлопнуты в "_", разделители пути удалены.
func NormalizePlace(place string) string {
	fields := strings.FieldsFunc(strings.ToLower(place), func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '\\' || r == ':'
	})
	return strings.Join(fields, "_")
}
