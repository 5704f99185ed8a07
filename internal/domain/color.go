package domain

import "fmt"

// Land-cover classes known to the classifier
const (
	ClassTrees  = "trees"
	ClassFields = "fields"
	ClassRoads  = "roads"
)

// Channel domain of the 8-bit HSV representation (OpenCV convention)
const (
	MaxHue        = 179
	MaxSaturation = 255
	MaxValue      = 255
)

// HSV - pixel in 8-bit hue/saturation/value space, H in [0,179]
type HSV [3]uint8

// ChannelMax returns the inclusive upper bound of channel i.
func ChannelMax(i int) uint8 {
	if i == 0 {
		return MaxHue
	}
	return 255
}

// ColorRange - inclusive per-channel acceptance range for one class
type ColorRange struct {
	Low  HSV `json:"low"`
	High HSV `json:"high"`
}

// FullRange accepts every pixel; it is the calibration fallback for degenerate samples.
var FullRange = ColorRange{
	Low:  HSV{0, 0, 0},
	High: HSV{MaxHue, MaxSaturation, MaxValue},
}

// Contains reports whether every channel of px lies within [Low, High].
func (r ColorRange) Contains(px HSV) bool {
	return px[0] >= r.Low[0] && px[0] <= r.High[0] &&
		px[1] >= r.Low[1] && px[1] <= r.High[1] &&
		px[2] >= r.Low[2] && px[2] <= r.High[2]
}

// Validate checks low <= high and the channel domain.
func (r ColorRange) Validate() error {
	for i := 0; i < 3; i++ {
		if r.Low[i] > r.High[i] {
			return fmt.Errorf("channel %d: low %d > high %d", i, r.Low[i], r.High[i])
		}
		if r.High[i] > ChannelMax(i) {
			return fmt.Errorf("channel %d: high %d exceeds %d", i, r.High[i], ChannelMax(i))
		}
	}
	return nil
}

func (r ColorRange) String() string {
	return fmt.Sprintf("low=%v high=%v", r.Low, r.High)
}

// Ranges - acceptance ranges keyed by class name
type Ranges map[string]ColorRange

// Classes returns the class names present, in rendering priority order.
func (r Ranges) Classes() []string {
	out := make([]string, 0, len(r))
	for _, name := range []string{ClassFields, ClassRoads, ClassTrees} {
		if _, ok := r[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// IsKnownClass reports whether name is one of the supported classes.
func IsKnownClass(name string) bool {
	switch name {
	case ClassTrees, ClassFields, ClassRoads:
		return true
	}
	return false
}
