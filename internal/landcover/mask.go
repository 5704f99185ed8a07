package landcover

import (
	"fmt"
	"image"

	"github.com/landcover-microservice/internal/domain"
)

// Mask - boolean class membership grid with the dimensions of the source image
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

func (m *Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of member pixels.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// CountIn returns the number of member pixels inside r.
func (m *Mask) CountIn(r image.Rectangle) int {
	if m == nil {
		return 0
	}
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x] {
				n++
			}
		}
	}
	return n
}

// SameShape reports whether both masks have identical dimensions.
func (m *Mask) SameShape(o *Mask) bool {
	return m.Width == o.Width && m.Height == o.Height && len(m.Bits) == len(o.Bits)
}

// Masks - class masks keyed by class name
type Masks map[string]*Mask

// Smoothing selects the speckle suppression applied by Classify.
type Smoothing string

const (
	SmoothNone     Smoothing = "none"
	SmoothMajority Smoothing = "majority"
)

// ImageFilter pre-processes the target image before colour conversion.
type ImageFilter interface {
	Filter(img image.Image) (image.Image, error)
}

// ClassifyOptions - optional tuning for Classify; the zero value classifies raw pixels.
type ClassifyOptions struct {
	Smoothing Smoothing
	Filter    ImageFilter
}

// Classify segments img into one mask per class in ranges. Trees take priority
// over fields: the fields mask never contains a tree pixel.
func Classify(img image.Image, ranges domain.Ranges, opts ClassifyOptions) (Masks, error) {
	for _, required := range []string{domain.ClassTrees, domain.ClassFields} {
		if _, ok := ranges[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q range", ErrConfiguration, required)
		}
	}
	for name, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: range %q: %v", ErrConfiguration, name, err)
		}
	}
	switch opts.Smoothing {
	case "", SmoothNone, SmoothMajority:
	default:
		return nil, validationError("unknown smoothing %q", opts.Smoothing)
	}

	if img == nil {
		return nil, validationError("image is nil")
	}
	if opts.Filter != nil {
		filtered, err := opts.Filter.Filter(img)
		if err != nil {
			return nil, fmt.Errorf("image filter: %w", err)
		}
		img = filtered
	}

	hsv, err := toHSV(img)
	if err != nil {
		return nil, err
	}

	masks := make(Masks, len(ranges))
	for name, r := range ranges {
		m := NewMask(hsv.width, hsv.height)
		for i := range m.Bits {
			m.Bits[i] = r.Contains(hsv.at(i))
		}
		if opts.Smoothing == SmoothMajority {
			m = majority(m)
		}
		masks[name] = m
	}

	trees, fields := masks[domain.ClassTrees], masks[domain.ClassFields]
	for i, t := range trees.Bits {
		if t {
			fields.Bits[i] = false
		}
	}
	return masks, nil
}

// majority keeps a pixel iff more than half of its 3x3 neighbourhood
// (clipped at the border) is set.
func majority(m *Mask) *Mask {
	out := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			set, total := 0, 0
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= m.Height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= m.Width {
						continue
					}
					total++
					if m.Bits[yy*m.Width+xx] {
						set++
					}
				}
			}
			out.Bits[y*m.Width+x] = set*2 > total
		}
	}
	return out
}
