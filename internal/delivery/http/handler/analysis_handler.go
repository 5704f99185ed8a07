package handler

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/domain"
	apperrors "github.com/landcover-microservice/internal/pkg/errors"
	"github.com/landcover-microservice/internal/pkg/utils"
	"github.com/landcover-microservice/internal/pkg/validator"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/usecase/dto"
)

// AnalysisHandler - обработчик запросов анализа снимков
type AnalysisHandler struct {
	analysisUC *usecase.AnalysisUseCase
	logger     *zap.Logger
}

// NewAnalysisHandler - создание нового AnalysisHandler
func NewAnalysisHandler(analysisUC *usecase.AnalysisUseCase, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUC: analysisUC,
		logger:     logger,
	}
}

// AnalyzePlace godoc
// @Summary Анализ покрытия по названию места
// @Description Геокодирует место, загружает спутниковый снимок, классифицирует лес, поля и дороги и рассчитывает, сколько деревьев нужно высадить.
// @Tags Analysis
// @Produce json
// @Param place path string true "Название места"
// @Param refresh query bool false "Игнорировать кеш и сохранённые данные"
// @Param profile query string false "ID профиля калибровки"
// @Param policy query string false "Политика посадки (auto, coverage, aqi)"
// @Param tiles query string false "Сетка разбиения COLSxROWS, например 3x2"
// @Param overlay query bool false "Вернуть оверлей в base64"
// @Success 200 {object} utils.SuccessResponse{data=dto.AnalysisResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/analysis/place/{place} [get]
func (h *AnalysisHandler) AnalyzePlace(c *fiber.Ctx) error {
	start := time.Now()

	place, err := placeParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	cols, rows, err := parseTiles(c.Query("tiles"))
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.AnalyzePlaceRequest{
		Place:     place,
		ProfileID: c.Query("profile"),
		Policy:    strings.ToLower(c.Query("policy")),
		Refresh:   c.QueryBool("refresh", false),
		TileCols:  cols,
		TileRows:  rows,
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validationError(err))
	}

	result, err := h.analysisUC.ProcessByPlace(c.UserContext(), req.Place, usecase.AnalysisOptions{
		ProfileID: req.ProfileID,
		Policy:    parsePolicy(req.Policy),
		Refresh:   req.Refresh,
		TileCols:  req.TileCols,
		TileRows:  req.TileRows,
	})
	if err != nil {
		h.logger.Warn("Place analysis failed", zap.String("place", place), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, h.response(result, c.QueryBool("overlay", false)), &utils.Meta{
		Cached:   result.Cached,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// GetOverlay godoc
// @Summary PNG-оверлей последнего анализа места
// @Tags Analysis
// @Produce png
// @Param place path string true "Название места"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/analysis/place/{place}/overlay.png [get]
func (h *AnalysisHandler) GetOverlay(c *fiber.Ctx) error {
	place, err := placeParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	png, err := h.analysisUC.GetOverlay(c.UserContext(), place)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.Send(png)
}

// AnalyzeImage godoc
// @Summary Анализ загруженного снимка
// @Description Масштаб задаётся через pixel_m2 либо через lat и bbox_half_width.
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Спутниковый снимок (PNG, JPEG, WebP)"
// @Param pixel_m2 formData number false "Площадь пикселя, м²"
// @Param lat formData number false "Широта центра снимка"
// @Param bbox_half_width formData number false "Половина ширины bbox в градусах"
// @Param aqi formData int false "Индекс качества воздуха"
// @Param profile formData string false "ID профиля калибровки"
// @Param policy formData string false "Политика посадки (auto, coverage, aqi)"
// @Param tiles formData string false "Сетка разбиения COLSxROWS"
// @Success 200 {object} utils.SuccessResponse{data=dto.AnalysisResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/analysis/image [post]
func (h *AnalysisHandler) AnalyzeImage(c *fiber.Ctx) error {
	start := time.Now()

	fh, err := c.FormFile("image")
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("image file is required"))
	}

	req, err := h.parseImageRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validationError(err))
	}

	img, err := decodeUpload(fh)
	if err != nil {
		return utils.SendError(c, err)
	}

	scale := req.PixelM2
	if scale == 0 {
		if req.Lat == nil || req.BBoxHalfWidth == 0 {
			return utils.SendError(c, apperrors.ErrValidation.WithMessage("pixel_m2 or lat and bbox_half_width are required"))
		}
		b := img.Bounds()
		scale, err = h.analysisUC.PixelScale(*req.Lat, req.BBoxHalfWidth, b.Dx(), b.Dy())
		if err != nil {
			return utils.SendError(c, err)
		}
	}

	var reading *domain.AirQualityReading
	if req.AQI != nil {
		reading = &domain.AirQualityReading{AQI: req.AQI, Category: domain.AQICategory(*req.AQI)}
	}

	result, err := h.analysisUC.ProcessImage(c.UserContext(), img, scale, reading, usecase.AnalysisOptions{
		ProfileID: req.ProfileID,
		Policy:    parsePolicy(req.Policy),
		TileCols:  req.TileCols,
		TileRows:  req.TileRows,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, h.response(result, true), &utils.Meta{
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// GetScale godoc
// @Summary Площадь пикселя снимка
// @Tags Analysis
// @Produce json
// @Param lat query number true "Широта"
// @Param bbox_half_width query number true "Половина ширины bbox в градусах"
// @Param width query int true "Ширина снимка, px"
// @Param height query int true "Высота снимка, px"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScaleResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/scale [get]
func (h *AnalysisHandler) GetScale(c *fiber.Ctx) error {
	var req dto.ScaleRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid query parameters"))
	}
	if req.BBoxHalfWidth == 0 {
		req.BBoxHalfWidth = h.analysisUC.BBoxDelta()
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validationError(err))
	}

	scale, err := h.analysisUC.PixelScale(req.Lat, req.BBoxHalfWidth, req.Width, req.Height)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ScaleResponse{
		PixelM2:     scale,
		TotalAreaM2: scale * float64(req.Width*req.Height),
	}, nil)
}

func (h *AnalysisHandler) parseImageRequest(c *fiber.Ctx) (dto.AnalyzeImageRequest, error) {
	var req dto.AnalyzeImageRequest

	pixel, err := formFloat(c, "pixel_m2")
	if err != nil {
		return req, err
	}
	if pixel != nil {
		req.PixelM2 = *pixel
	}
	if req.Lat, err = formFloat(c, "lat"); err != nil {
		return req, err
	}
	half, err := formFloat(c, "bbox_half_width")
	if err != nil {
		return req, err
	}
	if half != nil {
		req.BBoxHalfWidth = *half
	}
	if req.AQI, err = formInt(c, "aqi"); err != nil {
		return req, err
	}
	if req.TileCols, req.TileRows, err = parseTiles(c.FormValue("tiles")); err != nil {
		return req, err
	}
	req.ProfileID = c.FormValue("profile")
	req.Policy = strings.ToLower(c.FormValue("policy"))
	return req, nil
}

func (h *AnalysisHandler) response(result *usecase.AnalysisResult, withOverlay bool) dto.AnalysisResponse {
	resp := dto.AnalysisResponse{
		Report:  result.Report,
		Summary: dto.NewReportSummary(result.Report),
	}
	if withOverlay && len(result.Overlay) > 0 {
		resp.OverlayBase64 = base64.StdEncoding.EncodeToString(result.Overlay)
	}
	return resp
}
