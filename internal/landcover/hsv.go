package landcover

import (
	"image"
	"math"

	"github.com/landcover-microservice/internal/domain"
	"golang.org/x/image/draw"
)

// hsvImage holds an image converted to 8-bit HSV, three bytes per pixel.
type hsvImage struct {
	width  int
	height int
	pix    []uint8
}

func (h *hsvImage) at(i int) domain.HSV {
	return domain.HSV{h.pix[i*3], h.pix[i*3+1], h.pix[i*3+2]}
}

// toNRGBA normalises any image to a zero-origin NRGBA copy. Alpha is ignored
// by the colour maths, mirroring an RGB conversion.
func toNRGBA(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, validationError("image is nil")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, validationError("image is empty (%dx%d)", b.Dx(), b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// RGBToHSV converts one RGB pixel using the 8-bit OpenCV formula:
// V = max, S = 255*(max-min)/max, H = hue/2 in [0,179].
func RGBToHSV(r, g, b uint8) domain.HSV {
	rf, gf, bf := float64(r), float64(g), float64(b)
	v := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))
	diff := v - lo

	var s float64
	if v > 0 {
		s = math.Round(255 * diff / v)
	}

	var h float64
	if diff > 0 {
		switch v {
		case rf:
			h = 60 * (gf - bf) / diff
		case gf:
			h = 120 + 60*(bf-rf)/diff
		default:
			h = 240 + 60*(rf-gf)/diff
		}
		if h < 0 {
			h += 360
		}
	}

	h8 := int(math.Round(h / 2))
	if h8 > domain.MaxHue {
		h8 -= domain.MaxHue + 1
	}
	return domain.HSV{uint8(h8), uint8(s), uint8(v)}
}

func toHSV(img image.Image) (*hsvImage, error) {
	rgba, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	out := &hsvImage{width: w, height: h, pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			px := RGBToHSV(row[x*4], row[x*4+1], row[x*4+2])
			i := (y*w + x) * 3
			out.pix[i], out.pix[i+1], out.pix[i+2] = px[0], px[1], px[2]
		}
	}
	return out, nil
}
