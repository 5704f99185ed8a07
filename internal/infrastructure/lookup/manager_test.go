package lookup

import (
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockGeocoder struct{ mock.Mock }

func (m *mockGeocoder) FindCoordinates(ctx context.Context, place string) (*domain.Place, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

type mockImagery struct{ mock.Mock }

func (m *mockImagery) FindPhoto(ctx context.Context, c domain.Coordinate) (*domain.Photo, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func TestManager_GetPhotoByPlace(t *testing.T) {
	ctx := context.Background()
	loc := domain.Coordinate{Lat: 49.84, Lon: 24.03}

	t.Run("success", func(t *testing.T) {
		geo := new(mockGeocoder)
		img := new(mockImagery)
		geo.On("FindCoordinates", ctx, "Lviv").Return(&domain.Place{Name: "Lviv", Location: loc}, nil)
		img.On("FindPhoto", ctx, loc).Return(&domain.Photo{Width: 600, Height: 400}, nil)

		m := NewManager(geo, img, nil, zap.NewNop())
		place, photo, err := m.GetPhotoByPlace(ctx, "Lviv")
		require.NoError(t, err)
		assert.Equal(t, loc, place.Location)
		assert.Equal(t, 600, photo.Width)
		geo.AssertExpectations(t)
		img.AssertExpectations(t)
	})

	t.Run("place not found", func(t *testing.T) {
		geo := new(mockGeocoder)
		img := new(mockImagery)
		geo.On("FindCoordinates", ctx, "Atlantis").Return(nil, domain.ErrPlaceNotFound)

		m := NewManager(geo, img, nil, zap.NewNop())
		_, _, err := m.GetPhotoByPlace(ctx, "Atlantis")
		assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
		img.AssertNotCalled(t, "FindPhoto", mock.Anything, mock.Anything)
	})

	t.Run("image unavailable", func(t *testing.T) {
		geo := new(mockGeocoder)
		img := new(mockImagery)
		geo.On("FindCoordinates", ctx, "Lviv").Return(&domain.Place{Name: "Lviv", Location: loc}, nil)
		img.On("FindPhoto", ctx, loc).Return(nil, domain.ErrImageUnavailable)

		m := NewManager(geo, img, nil, zap.NewNop())
		place, _, err := m.GetPhotoByPlace(ctx, "Lviv")
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
		assert.NotNil(t, place)
	})
}

func TestManager_FindAirPollutionIndex_Disabled(t *testing.T) {
	m := NewManager(new(mockGeocoder), new(mockImagery), nil, zap.NewNop())
	_, err := m.FindAirPollutionIndex(context.Background(), domain.Coordinate{})
	assert.True(t, errors.Is(err, domain.ErrAirQualityUnavailable))
}

func TestNewFromConfig_ImageryProvider(t *testing.T) {
	var arcgisHits, mapboxHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/styles/v1/"):
			mapboxHits.Add(1)
		case r.URL.Path == "/export":
			arcgisHits.Add(1)
		}
		_ = png.Encode(w, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	}))
	defer server.Close()

	newCfg := func(provider string) *config.Config {
		return &config.Config{
			Imagery: config.ImageryConfig{
				Provider:  provider,
				BaseURL:   server.URL,
				BBoxDelta: 0.005,
				Width:     4,
				Height:    4,
				Timeout:   5 * time.Second,
			},
			Mapbox: config.MapboxConfig{
				AccessToken: "token",
				BaseURL:     server.URL,
				Style:       "mapbox/satellite-v9",
			},
		}
	}

	_, err := NewFromConfig(newCfg(config.ImageryProviderArcGIS), zap.NewNop()).
		FindPhoto(context.Background(), domain.Coordinate{Lat: 1, Lon: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), arcgisHits.Load())

	_, err = NewFromConfig(newCfg(config.ImageryProviderMapbox), zap.NewNop()).
		FindPhoto(context.Background(), domain.Coordinate{Lat: 1, Lon: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), mapboxHits.Load())
}
