package imagery_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/infrastructure/imagery"
)

func TestDecode_JPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 18, 14))
	for y := 10; y < 14; y++ {
		for x := 10; x < 18; x++ {
			src.Set(x, y, color.RGBA{R: 40, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	rgba, pngBytes, format, err := imagery.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Rect(0, 0, 8, 4), rgba.Bounds())
	assert.True(t, bytes.HasPrefix(pngBytes, []byte("\x89PNG")))
}

func TestDecode_NotAnImage(t *testing.T) {
	_, _, _, err := imagery.Decode([]byte(`{"error":{"code":400}}`))
	assert.True(t, errors.Is(err, domain.ErrImageUnavailable))
}
