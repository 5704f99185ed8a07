// Package imagery содержит общий код HTTP-источников спутниковых снимков.
package imagery

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/landcover-microservice/internal/domain"
)

// MaxImageBytes ограничивает размер ответа
const MaxImageBytes = 32 << 20

// Decode раскодирует ответ сервера в RGBA и PNG-копию для хранения.
// Ошибки оборачивают domain.ErrImageUnavailable.
func Decode(body []byte) (*image.RGBA, []byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: decode: %v", domain.ErrImageUnavailable, err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, nil, "", fmt.Errorf("%w: empty image", domain.ErrImageUnavailable)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, nil, "", fmt.Errorf("encode png: %w", err)
	}
	return rgba, buf.Bytes(), format, nil
}
