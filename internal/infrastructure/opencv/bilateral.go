//go:build opencv

package opencv

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

// Параметры сглаживания: пространственный радиус 5, цветовой 20
const (
	SpatialRadius = 5
	ColorRadius   = 20
)

// BilateralFilter сглаживает текстуру внутри однородных участков, сохраняя границы
type BilateralFilter struct {
	diameter   int
	sigmaColor float64
	sigmaSpace float64
}

func NewBilateralFilter() (*BilateralFilter, error) {
	return &BilateralFilter{
		diameter:   2*SpatialRadius + 1,
		sigmaColor: ColorRadius,
		sigmaSpace: SpatialRadius,
	}, nil
}

func (f *BilateralFilter) Filter(img image.Image) (image.Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)

	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.BilateralFilter(bgr, &smoothed, f.diameter, f.sigmaColor, f.sigmaSpace)

	out, err := smoothed.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert mat: %w", err)
	}
	return out, nil
}
