package landcover_test

import (
	"image"
	"image/color"
)

var (
	forestGreen = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	wheat       = color.RGBA{R: 180, G: 160, B: 90, A: 255}
	black       = color.RGBA{A: 255}
)

func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// split returns an image whose left half is left and right half is right.
func split(w, h int, left, right color.Color) *image.RGBA {
	img := uniform(w, h, right)
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, left)
		}
	}
	return img
}
