package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/landcover-microservice/internal/pkg/utils"
)

func TestHaversineDistance(t *testing.T) {
	// Lviv -> Kyiv, ~469 km
	d := utils.HaversineDistance(49.8397, 24.0297, 50.4501, 30.5234)
	assert.InDelta(t, 469, d, 5)

	assert.Zero(t, utils.HaversineDistance(10, 10, 10, 10))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, utils.ValidateCoordinates(49.84, 24.03))
	assert.True(t, utils.ValidateCoordinates(-90, 180))
	assert.False(t, utils.ValidateCoordinates(91, 0))
	assert.False(t, utils.ValidateCoordinates(0, -181))
}

func TestValidateBBoxHalfWidth(t *testing.T) {
	assert.True(t, utils.ValidateBBoxHalfWidth(0.005))
	assert.False(t, utils.ValidateBBoxHalfWidth(0))
	assert.False(t, utils.ValidateBBoxHalfWidth(2))
}

func TestNormalizePlace(t *testing.T) {
	tests := map[string]string{
		"Lviv":                "lviv",
		"  Ivano  Frankivsk ": "ivano_frankivsk",
		"New York/Manhattan":  "new_york_manhattan",
		"report:Kyiv":         "report_kyiv",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, utils.NormalizePlace(in), in)
	}
}
