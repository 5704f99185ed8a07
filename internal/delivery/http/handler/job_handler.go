package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/landcover-microservice/internal/pkg/errors"
	"github.com/landcover-microservice/internal/pkg/utils"
	"github.com/landcover-microservice/internal/pkg/validator"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/usecase/dto"
)

// JobHandler - асинхронные задачи анализа
type JobHandler struct {
	jobUC  *usecase.JobUseCase
	logger *zap.Logger
}

// NewJobHandler - создание нового JobHandler
func NewJobHandler(jobUC *usecase.JobUseCase, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobUC:  jobUC,
		logger: logger,
	}
}

// SubmitJob godoc
// @Summary Поставить анализ места в очередь
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body dto.SubmitJobRequest true "Параметры анализа"
// @Success 202 {object} utils.SuccessResponse{data=domain.JobStatus}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/jobs [post]
func (h *JobHandler) SubmitJob(c *fiber.Ctx) error {
	var req dto.SubmitJobRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, validationError(err))
	}

	status, err := h.jobUC.Submit(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendAccepted(c, status)
}

// GetJob godoc
// @Summary Статус задачи анализа
// @Tags Jobs
// @Produce json
// @Param id path string true "ID задачи (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=domain.JobStatus}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("job id must be a UUID"))
	}

	status, err := h.jobUC.Status(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, status, nil)
}
