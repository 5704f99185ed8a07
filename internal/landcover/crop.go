package landcover

import (
	"image"

	"golang.org/x/image/draw"
)

// CentralFraction returns the centred crop whose sides are fraction of the
// original (at least one pixel each).
func CentralFraction(img image.Image, fraction float64) (image.Image, error) {
	if !(fraction > 0 && fraction <= 1) {
		return nil, validationError("fraction must be in (0, 1], got %v", fraction)
	}
	src, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	cw := maxInt(1, int(float64(w)*fraction))
	ch := maxInt(1, int(float64(h)*fraction))
	x0 := w/2 - cw/2
	y0 := h/2 - ch/2

	dst := image.NewNRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(dst, dst.Bounds(), src, image.Pt(x0, y0), draw.Src)
	return dst, nil
}

// Thumbnail scales img to fit within maxSide pixels, keeping the aspect ratio.
func Thumbnail(img image.Image, maxSide int) (image.Image, error) {
	src, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}
	if maxSide <= 0 {
		return nil, validationError("thumbnail size must be positive, got %d", maxSide)
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w <= maxSide && h <= maxSide {
		return src, nil
	}
	tw, th := maxSide, maxSide
	if w >= h {
		th = maxInt(1, h*maxSide/w)
	} else {
		tw = maxInt(1, w*maxSide/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
