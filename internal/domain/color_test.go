package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorRange_Contains(t *testing.T) {
	r := ColorRange{Low: HSV{30, 50, 50}, High: HSV{60, 200, 200}}

	tests := []struct {
		name     string
		px       HSV
		expected bool
	}{
		{name: "inside", px: HSV{45, 100, 100}, expected: true},
		{name: "low boundary is inclusive", px: HSV{30, 50, 50}, expected: true},
		{name: "high boundary is inclusive", px: HSV{60, 200, 200}, expected: true},
		{name: "hue below", px: HSV{29, 100, 100}, expected: false},
		{name: "saturation above", px: HSV{45, 201, 100}, expected: false},
		{name: "value below", px: HSV{45, 100, 49}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Contains(tt.px))
		})
	}
}

func TestColorRange_Validate(t *testing.T) {
	assert.NoError(t, FullRange.Validate())
	assert.Error(t, ColorRange{Low: HSV{10, 0, 0}, High: HSV{5, 255, 255}}.Validate())
	assert.Error(t, ColorRange{Low: HSV{0, 0, 0}, High: HSV{200, 255, 255}}.Validate())
}

func TestRanges_Classes(t *testing.T) {
	r := Ranges{
		ClassTrees:  FullRange,
		ClassFields: FullRange,
	}
	assert.Equal(t, []string{ClassFields, ClassTrees}, r.Classes())

	r[ClassRoads] = FullRange
	assert.Equal(t, []string{ClassFields, ClassRoads, ClassTrees}, r.Classes())
}

func TestParsePlantingPolicy(t *testing.T) {
	p, ok := ParsePlantingPolicy("")
	assert.True(t, ok)
	assert.Equal(t, PolicyAuto, p)

	p, ok = ParsePlantingPolicy("aqi")
	assert.True(t, ok)
	assert.Equal(t, PolicyAQI, p)

	_, ok = ParsePlantingPolicy("random")
	assert.False(t, ok)
}

func TestAirQualityReading_HasIndex(t *testing.T) {
	var nilReading *AirQualityReading
	assert.False(t, nilReading.HasIndex())
	assert.False(t, (&AirQualityReading{Category: "Good"}).HasIndex())

	aqi := 42
	assert.True(t, (&AirQualityReading{AQI: &aqi}).HasIndex())
}
