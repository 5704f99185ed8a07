package landcover

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/landcover-microservice/internal/domain"
)

// DefaultOverlayAlpha - overlay strength of the painted copy
const DefaultOverlayAlpha = 0.25

// DefaultColors are the flat display colours per class.
var DefaultColors = map[string]color.RGBA{
	domain.ClassTrees:  {R: 255, A: 255},
	domain.ClassFields: {B: 255, A: 255},
	domain.ClassRoads:  {R: 255, G: 255, A: 255},
}

// paintOrder - trees are painted last so they take visual priority
var paintOrder = []string{domain.ClassFields, domain.ClassRoads, domain.ClassTrees}

// OverlayOptions configures Render. Zero values fall back to the defaults.
type OverlayOptions struct {
	// Alpha in (0,1]; 0 selects DefaultOverlayAlpha
	Alpha  float64
	Colors map[string]color.RGBA
	Legend bool
}

// Render paints each class mask onto a copy of img and blends it back at Alpha.
func Render(img image.Image, masks Masks, opts OverlayOptions) (*image.RGBA, error) {
	src, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for name, m := range masks {
		if m == nil {
			continue
		}
		if m.Width != w || m.Height != h {
			return nil, validationError("mask %q is %dx%d, image is %dx%d", name, m.Width, m.Height, w, h)
		}
	}

	alpha := opts.Alpha
	if alpha == 0 {
		alpha = DefaultOverlayAlpha
	}
	if alpha < 0 || alpha > 1 {
		return nil, validationError("overlay alpha must be in (0,1], got %v", alpha)
	}
	colors := opts.Colors
	if colors == nil {
		colors = DefaultColors
	}

	// painted[i] holds the colour of the last class claiming pixel i
	painted := make([]*color.RGBA, w*h)
	for _, name := range paintOrder {
		m, ok := masks[name]
		if !ok || m == nil {
			continue
		}
		c, ok := colors[name]
		if !ok {
			c = DefaultColors[name]
		}
		for i, b := range m.Bits {
			if b {
				painted[i] = &c
			}
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := y*src.Stride + x*4
			di := y*out.Stride + x*4
			r, g, b := src.Pix[si], src.Pix[si+1], src.Pix[si+2]
			if c := painted[y*w+x]; c != nil {
				r = blend(r, c.R, alpha)
				g = blend(g, c.G, alpha)
				b = blend(b, c.B, alpha)
			}
			out.Pix[di], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = r, g, b, 255
		}
	}

	if opts.Legend {
		drawLegend(out, masks, colors)
	}
	return out, nil
}

func blend(orig, paint uint8, alpha float64) uint8 {
	v := (1-alpha)*float64(orig) + alpha*float64(paint)
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// drawLegend writes a small colour key with per-class coverage in the top-left corner.
func drawLegend(dst *image.RGBA, masks Masks, colors map[string]color.RGBA) {
	dc := gg.NewContextForRGBA(dst)
	total := dst.Rect.Dx() * dst.Rect.Dy()

	const (
		pad    = 6.0
		swatch = 10.0
		line   = 16.0
	)
	var rows []string
	for _, name := range []string{domain.ClassTrees, domain.ClassFields, domain.ClassRoads} {
		if _, ok := masks[name]; ok {
			rows = append(rows, name)
		}
	}
	if len(rows) == 0 {
		return
	}

	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRectangle(pad, pad, 130, float64(len(rows))*line+pad)
	dc.Fill()

	for i, name := range rows {
		y := pad + pad/2 + float64(i)*line
		c, ok := colors[name]
		if !ok {
			c = DefaultColors[name]
		}
		dc.SetColor(c)
		dc.DrawRectangle(pad*2, y+2, swatch, swatch)
		dc.Fill()

		pct := 0.0
		if total > 0 {
			pct = float64(masks[name].Count()) * 100 / float64(total)
		}
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(fmt.Sprintf("%s %.1f%%", name, pct), pad*2+swatch+pad, y+swatch/2+2, 0, 0.5)
	}
}

// EncodePNG serialises an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
