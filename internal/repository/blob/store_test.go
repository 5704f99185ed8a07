package blob_test

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/repository/blob"
	"github.com/landcover-microservice/internal/repository/filestorage"
)

func newStore() *blob.Store {
	return blob.NewStore(filestorage.New(afero.NewMemMapFs(), "/data", zap.NewNop()), zap.NewNop())
}

func TestPlaceID(t *testing.T) {
	assert.Equal(t, "ivano_frankivsk/forest_data", blob.PlaceID("Ivano Frankivsk", blob.KindForestData))
	assert.Equal(t, "profiles/abc", blob.ProfileID("abc"))
}

func TestStore_JSON(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	place := domain.Place{Name: "Lviv", Location: domain.Coordinate{Lat: 49.84, Lon: 24.03}}

	require.NoError(t, s.SaveJSON(ctx, blob.PlaceID("Lviv", blob.KindCoords), place))

	var got domain.Place
	require.NoError(t, s.LoadJSON(ctx, "lviv/coords", &got))
	assert.Equal(t, place.Location, got.Location)

	err := s.LoadJSON(ctx, "kyiv/coords", &got)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestStore_Image(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	data, err := s.SaveImage(ctx, "lviv/photo", img)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	got, raw, err := s.LoadImage(ctx, "lviv/photo")
	require.NoError(t, err)
	assert.Equal(t, data, raw)
	assert.Equal(t, img.Bounds(), got.Bounds())
	r, g, b, _ := got.At(1, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})

	require.NoError(t, s.Delete(ctx, "lviv/photo"))
	_, _, err = s.LoadImage(ctx, "lviv/photo")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestProfileRepository(t *testing.T) {
	repo := blob.NewProfileRepository(newStore(), zap.NewNop())
	ctx := context.Background()
	now := time.Now()

	older := &domain.Profile{ID: "old", Ranges: domain.Ranges{domain.ClassTrees: domain.FullRange}, CreatedAt: now.Add(-time.Hour)}
	newer := &domain.Profile{ID: "new", Ranges: domain.Ranges{domain.ClassTrees: domain.FullRange}, CreatedAt: now}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	got, err := repo.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, domain.FullRange, got.Ranges[domain.ClassTrees])

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	assert.Error(t, repo.Save(ctx, &domain.Profile{ID: "a/b"}))
	assert.Error(t, repo.Save(ctx, &domain.Profile{}))
}
