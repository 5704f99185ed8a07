package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landcover-microservice/internal/usecase/dto"
)

func TestAnalysisHandler_AnalyzePlace(t *testing.T) {
	env := newTestEnv(t, true)

	code, body := env.do(t, http.MethodGet, "/api/v1/analysis/place/Lviv?tiles=2x1&overlay=true", nil, "")
	require.Equal(t, http.StatusOK, code, string(body))

	resp := decode(t, bytes.NewReader(body))
	var data dto.AnalysisResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	assert.Equal(t, "Lviv", data.Report.Place)
	assert.Equal(t, 100, data.Report.Trees.Pixels)
	assert.Equal(t, 100, data.Report.Fields.Pixels)
	assert.InDelta(t, 50.0, data.Summary.ForestCoveragePercent, 0.01)
	assert.Len(t, data.Report.Tiles, 2)
	assert.NotEmpty(t, data.OverlayBase64)
}

func TestAnalysisHandler_AnalyzePlace_Errors(t *testing.T) {
	tests := []struct {
		name       string
		calibrated bool
		target     string
		wantStatus int
		wantCode   string
	}{
		{"unknown place", true, "/api/v1/analysis/place/Atlantis", http.StatusNotFound, "PLACE_NOT_FOUND"},
		{"bad tiles", true, "/api/v1/analysis/place/Lviv?tiles=abc", http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad policy", true, "/api/v1/analysis/place/Lviv?policy=magic", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"no calibration", false, "/api/v1/analysis/place/Lviv", http.StatusServiceUnavailable, "CALIBRATION_UNAVAILABLE"},
		{"unknown profile", true, "/api/v1/analysis/place/Lviv?profile=missing", http.StatusNotFound, "PROFILE_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.calibrated)

			code, body := env.do(t, http.MethodGet, tt.target, nil, "")
			assert.Equal(t, tt.wantStatus, code, string(body))

			resp := decode(t, bytes.NewReader(body))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestAnalysisHandler_GetOverlay(t *testing.T) {
	env := newTestEnv(t, true)

	code, _ := env.do(t, http.MethodGet, "/api/v1/analysis/place/Lviv/overlay.png", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, http.MethodGet, "/api/v1/analysis/place/Lviv", nil, "")
	require.Equal(t, http.StatusOK, code)

	code, body := env.do(t, http.MethodGet, "/api/v1/analysis/place/Lviv/overlay.png", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}

func TestAnalysisHandler_AnalyzeImage(t *testing.T) {
	env := newTestEnv(t, true)

	body, contentType := multipartBody(t,
		map[string]string{"pixel_m2": "4", "aqi": "120"},
		[]formFile{{field: "image", name: "sample.png", content: encodePNG(t, split(20, 10))}})

	code, raw := env.do(t, http.MethodPost, "/api/v1/analysis/image", body, contentType)
	require.Equal(t, http.StatusOK, code, string(raw))

	resp := decode(t, bytes.NewReader(raw))
	var data dto.AnalysisResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	assert.InDelta(t, 400.0, data.Report.Trees.AreaM2, 0.001)
	require.NotNil(t, data.Summary.CurrentAQI)
	assert.Equal(t, 120, *data.Summary.CurrentAQI)
	assert.NotEmpty(t, data.OverlayBase64)
}

func TestAnalysisHandler_AnalyzeImage_Invalid(t *testing.T) {
	env := newTestEnv(t, true)

	t.Run("missing image", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"pixel_m2": "4"}, nil)
		code, _ := env.do(t, http.MethodPost, "/api/v1/analysis/image", body, contentType)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("missing scale", func(t *testing.T) {
		body, contentType := multipartBody(t, nil,
			[]formFile{{field: "image", name: "sample.png", content: encodePNG(t, split(4, 4))}})
		code, raw := env.do(t, http.MethodPost, "/api/v1/analysis/image", body, contentType)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, bytes.NewReader(raw)).Error.Code)
	})

	t.Run("corrupt image", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"pixel_m2": "4"},
			[]formFile{{field: "image", name: "broken.png", content: []byte("not an image")}})
		code, _ := env.do(t, http.MethodPost, "/api/v1/analysis/image", body, contentType)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestAnalysisHandler_GetScale(t *testing.T) {
	env := newTestEnv(t, false)

	code, raw := env.do(t, http.MethodGet, "/api/v1/scale?lat=0&bbox_half_width=0.005&width=100&height=100", nil, "")
	require.Equal(t, http.StatusOK, code, string(raw))

	var data dto.ScaleResponse
	require.NoError(t, json.Unmarshal(decode(t, bytes.NewReader(raw)).Data, &data))
	assert.Greater(t, data.PixelM2, 0.0)
	assert.InDelta(t, data.PixelM2*10000, data.TotalAreaM2, 1e-6)

	code, _ = env.do(t, http.MethodGet, "/api/v1/scale?lat=0&width=0&height=100", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
}
