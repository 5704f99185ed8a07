package handler

import (
	"image"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/domain"
	apperrors "github.com/landcover-microservice/internal/pkg/errors"
	"github.com/landcover-microservice/internal/pkg/utils"
	"github.com/landcover-microservice/internal/pkg/validator"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/usecase/dto"
)

// CalibrationHandler - обработчик профилей калибровки
type CalibrationHandler struct {
	calibrationUC *usecase.CalibrationUseCase
	logger        *zap.Logger
}

// NewCalibrationHandler - создание нового CalibrationHandler
func NewCalibrationHandler(calibrationUC *usecase.CalibrationUseCase, logger *zap.Logger) *CalibrationHandler {
	return &CalibrationHandler{
		calibrationUC: calibrationUC,
		logger:        logger,
	}
}

// CreateProfile godoc
// @Summary Калибровка по эталонным снимкам
// @Description Выводит HSV-диапазоны для каждого класса по загруженным снимкам. Классы trees и fields обязательны.
// @Tags Calibration
// @Accept multipart/form-data
// @Produce json
// @Param trees formData file true "Эталоны леса"
// @Param fields formData file true "Эталоны полей"
// @Param roads formData file false "Эталоны дорог"
// @Param name formData string false "Название профиля"
// @Param low_percentile formData number false "Нижний перцентиль" default(10)
// @Param high_percentile formData number false "Верхний перцентиль" default(90)
// @Param pad formData string false "Отступ H,S,V" default(5,15,15)
// @Param center_fraction formData number false "Доля центральной области (0,1]"
// @Param activate formData bool false "Сделать профиль активным"
// @Success 201 {object} utils.SuccessResponse{data=domain.Profile}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/calibration/profiles [post]
func (h *CalibrationHandler) CreateProfile(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("multipart form expected"))
	}

	req := dto.CalibrationRequest{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Samples:  make(map[string][]image.Image),
		Activate: c.FormValue("activate") == "true",
	}

	for _, class := range []string{domain.ClassTrees, domain.ClassFields, domain.ClassRoads} {
		for _, fh := range form.File[class] {
			img, err := decodeUpload(fh)
			if err != nil {
				return utils.SendError(c, err)
			}
			req.Samples[class] = append(req.Samples[class], img)
		}
	}

	if req.LowPercentile, err = formFloat(c, "low_percentile"); err != nil {
		return utils.SendError(c, err)
	}
	if req.HighPercentile, err = formFloat(c, "high_percentile"); err != nil {
		return utils.SendError(c, err)
	}
	if req.Pad, err = parsePad(c.FormValue("pad")); err != nil {
		return utils.SendError(c, err)
	}
	fraction, err := formFloat(c, "center_fraction")
	if err != nil {
		return utils.SendError(c, err)
	}
	if fraction != nil {
		req.CenterFraction = *fraction
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validationError(err))
	}

	profile, err := h.calibrationUC.Calibrate(c.UserContext(), req)
	if err != nil {
		h.logger.Warn("Calibration failed", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, profile)
}

// ListProfiles godoc
// @Summary Список профилей калибровки
// @Tags Calibration
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ProfileListResponse}
// @Router /api/v1/calibration/profiles [get]
func (h *CalibrationHandler) ListProfiles(c *fiber.Ctx) error {
	profiles, err := h.calibrationUC.ListProfiles(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.ProfileListResponse{Profiles: profiles}
	if active := h.calibrationUC.Active(); active != nil {
		resp.ActiveID = active.ID
	}

	return utils.SendSuccess(c, resp, &utils.Meta{Total: len(profiles)})
}

// GetProfile godoc
// @Summary Профиль калибровки по ID
// @Tags Calibration
// @Produce json
// @Param id path string true "ID профиля"
// @Success 200 {object} utils.SuccessResponse{data=domain.Profile}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/calibration/profiles/{id} [get]
func (h *CalibrationHandler) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" || strings.Contains(id, "/") {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid profile id"))
	}

	profile, err := h.calibrationUC.GetProfile(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, profile, nil)
}
