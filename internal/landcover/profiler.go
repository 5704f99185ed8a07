package landcover

import (
	"image"
	"math"

	"github.com/landcover-microservice/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// DarkPixelThreshold - pixels with V at or below this are shadow/noise
const DarkPixelThreshold = 15

// ProfileOptions tunes how a calibration range is derived.
type ProfileOptions struct {
	LowPercentile  float64
	HighPercentile float64
	Pad            domain.HSV
}

// DefaultProfileOptions returns the 10th/90th percentile window padded by (5,15,15).
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{
		LowPercentile:  10,
		HighPercentile: 90,
		Pad:            domain.HSV{5, 15, 15},
	}
}

// Validate checks 0 <= low < high <= 100.
func (o ProfileOptions) Validate() error {
	if math.IsNaN(o.LowPercentile) || math.IsNaN(o.HighPercentile) {
		return validationError("percentiles must be numbers")
	}
	if o.LowPercentile < 0 || o.HighPercentile > 100 || o.LowPercentile >= o.HighPercentile {
		return validationError("percentiles must satisfy 0 <= low < high <= 100, got %.2f/%.2f",
			o.LowPercentile, o.HighPercentile)
	}
	return nil
}

// ProfileResult is the outcome of a range derivation.
type ProfileResult struct {
	Range domain.ColorRange
	// Samples is the number of pixels that passed the dark-pixel filter
	Samples int
	// Mean is the per-channel average of the accepted pixels
	Mean [3]float64
	// Degenerate is set when no pixel passed the filter and FullRange was returned
	Degenerate bool
	Warning    *DegenerateInputWarning
}

// channelHistogram - per-channel 256-bin counts of the non-dark pixels
type channelHistogram [3][256]float64

func (h *channelHistogram) add(px domain.HSV) {
	h[0][px[0]]++
	h[1][px[1]]++
	h[2][px[2]]++
}

// count returns the number of pixels in channel c.
func (h *channelHistogram) count(c int) float64 {
	var n float64
	for _, w := range h[c] {
		n += w
	}
	return n
}

// valueAtRank returns the value holding the 0-based rank r in sorted order.
func (h *channelHistogram) valueAtRank(c int, r float64) float64 {
	var cum float64
	last := 0
	for v, w := range h[c] {
		if w == 0 {
			continue
		}
		cum += w
		last = v
		if cum > r {
			return float64(v)
		}
	}
	return float64(last)
}

// quantile returns the p-th percentile of channel c, interpolating linearly
// between the sorted values at ranks floor(p*(n-1)) and the next one.
func (h *channelHistogram) quantile(c int, p float64) float64 {
	n := h.count(c)
	if n == 0 {
		return 0
	}
	idx := p / 100 * (n - 1)
	k := math.Floor(idx)
	lo := h.valueAtRank(c, k)
	if k+1 >= n {
		return lo
	}
	hi := h.valueAtRank(c, k+1)
	return lo + (idx-k)*(hi-lo)
}

// mean returns the average value of channel c.
func (h *channelHistogram) mean(c int) float64 {
	xs := make([]float64, 0, 256)
	ws := make([]float64, 0, 256)
	for v, n := range h[c] {
		if n == 0 {
			continue
		}
		xs = append(xs, float64(v))
		ws = append(ws, n)
	}
	return stat.Mean(xs, ws)
}

// DeriveRange learns the acceptance range of one class from a single sample image.
func DeriveRange(img image.Image, opts ProfileOptions) (domain.ColorRange, error) {
	res, err := Analyze([]image.Image{img}, opts)
	if err != nil {
		return domain.ColorRange{}, err
	}
	return res.Range, nil
}

// DeriveRangeFromSamples pools every sample into one statistic.
func DeriveRangeFromSamples(imgs []image.Image, opts ProfileOptions) (domain.ColorRange, error) {
	res, err := Analyze(imgs, opts)
	if err != nil {
		return domain.ColorRange{}, err
	}
	return res.Range, nil
}

// Analyze derives a range and reports whether the degenerate fallback was used.
func Analyze(imgs []image.Image, opts ProfileOptions) (*ProfileResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(imgs) == 0 {
		return nil, validationError("no calibration samples")
	}

	var hist channelHistogram
	samples := 0
	for i, img := range imgs {
		hsv, err := toHSV(img)
		if err != nil {
			return nil, validationError("sample %d: %v", i, err)
		}
		n := hsv.width * hsv.height
		for p := 0; p < n; p++ {
			px := hsv.at(p)
			if px[2] <= DarkPixelThreshold {
				continue
			}
			hist.add(px)
			samples++
		}
	}

	if samples == 0 {
		return &ProfileResult{
			Range:      domain.FullRange,
			Degenerate: true,
			Warning:    &DegenerateInputWarning{Samples: len(imgs)},
		}, nil
	}

	var low, high domain.HSV
	var mean [3]float64
	for c := 0; c < 3; c++ {
		mean[c] = hist.mean(c)
		// uint8 truncation of the percentile value
		lo := int(hist.quantile(c, opts.LowPercentile)) - int(opts.Pad[c])
		hi := int(hist.quantile(c, opts.HighPercentile)) + int(opts.Pad[c])
		top := int(domain.ChannelMax(c))

		lo = clamp(lo, 0, top)
		hi = clamp(hi, 0, top)
		if lo > hi {
			lo = hi
		}
		low[c], high[c] = uint8(lo), uint8(hi)
	}

	return &ProfileResult{
		Range:   domain.ColorRange{Low: low, High: high},
		Mean:    mean,
		Samples: samples,
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
