package arcgis

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) *config.ImageryConfig {
	return &config.ImageryConfig{
		BaseURL:   url,
		BBoxDelta: 0.005,
		Width:     6,
		Height:    4,
		Timeout:   5 * time.Second,
	}
}

func TestClient_FindPhoto(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		var query string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/export", r.URL.Path)
			query = r.URL.RawQuery

			img := image.NewRGBA(image.Rect(0, 0, 6, 4))
			for i := range img.Pix {
				img.Pix[i] = 200
			}
			w.Header().Set("Content-Type", "image/jpeg")
			_ = jpeg.Encode(w, img, nil)
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL), logger)
		center := domain.Coordinate{Lat: 49.84, Lon: 24.03}

		photo, err := client.FindPhoto(context.Background(), center)
		require.NoError(t, err)
		assert.Equal(t, 6, photo.Width)
		assert.Equal(t, 4, photo.Height)
		assert.Equal(t, center, photo.Center)
		assert.InDelta(t, 49.835, photo.BBox.MinLat, 1e-9)
		assert.InDelta(t, 24.035, photo.BBox.MaxLon, 1e-9)
		assert.NotEmpty(t, photo.PNG)
		require.NotNil(t, photo.Image)

		assert.Contains(t, query, "bboxSR=4326")
		assert.Contains(t, query, "size=6%2C4")
		assert.Contains(t, query, "f=image")
		assert.True(t, strings.Contains(query, "bbox=24.025000%2C49.835000%2C24.035000%2C49.845000"), query)
	})

	t.Run("json error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Invalid bbox"}}`))
		}))
		defer server.Close()

		_, err := NewClient(testConfig(server.URL), logger).FindPhoto(context.Background(), domain.Coordinate{})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewClient(testConfig(server.URL), logger).FindPhoto(context.Background(), domain.Coordinate{})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
	})

	t.Run("png decodes to exact pixels", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		src.Set(1, 0, color.NRGBA{R: 34, G: 139, B: 34, A: 255})
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, src))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(buf.Bytes())
		}))
		defer server.Close()

		photo, err := NewClient(testConfig(server.URL), logger).FindPhoto(context.Background(), domain.Coordinate{})
		require.NoError(t, err)
		r, g, b, _ := photo.Image.At(1, 0).RGBA()
		assert.Equal(t, []uint32{34, 139, 34}, []uint32{r >> 8, g >> 8, b >> 8})
	})
}
