//go:build !opencv

package opencv

import (
	"image"
)

type BilateralFilter struct{}

func NewBilateralFilter() (*BilateralFilter, error) {
	return nil, ErrUnavailable
}

func (f *BilateralFilter) Filter(img image.Image) (image.Image, error) {
	return nil, ErrUnavailable
}
