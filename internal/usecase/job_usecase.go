package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/landcover"
	"github.com/landcover-microservice/internal/usecase/dto"
)

// JobUseCase - асинхронный анализ через Redis Streams
type JobUseCase struct {
	streamRepo repository.StreamRepository
	cacheRepo  repository.CacheRepository
	statusTTL  time.Duration
	logger     *zap.Logger
}

// NewJobUseCase создает новый экземпляр JobUseCase
func NewJobUseCase(
	streamRepo repository.StreamRepository,
	cacheRepo repository.CacheRepository,
	statusTTL time.Duration,
	logger *zap.Logger,
) *JobUseCase {
	return &JobUseCase{
		streamRepo: streamRepo,
		cacheRepo:  cacheRepo,
		statusTTL:  statusTTL,
		logger:     logger,
	}
}

// Submit публикует задачу в stream:landcover:analyze и сохраняет статус pending
func (uc *JobUseCase) Submit(ctx context.Context, req dto.SubmitJobRequest) (*domain.JobStatus, error) {
	place := strings.TrimSpace(req.Place)
	if place == "" {
		return nil, fmt.Errorf("%w: place is empty", landcover.ErrValidation)
	}
	policy, ok := domain.ParsePlantingPolicy(req.Policy)
	if !ok {
		return nil, fmt.Errorf("%w: unknown policy %q", landcover.ErrValidation, req.Policy)
	}

	status := &domain.JobStatus{
		JobID:     uuid.New(),
		Place:     place,
		State:     domain.JobPending,
		UpdatedAt: time.Now().UTC(),
	}

	if err := uc.cacheRepo.SetJobStatus(ctx, status, uc.statusTTL); err != nil {
		return nil, fmt.Errorf("save job status: %w", err)
	}

	event := domain.AnalysisRequestedEvent{
		JobID:     status.JobID,
		Place:     place,
		ProfileID: req.ProfileID,
		Policy:    policy,
		Refresh:   req.Refresh,
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamLandcoverAnalyze, event); err != nil {
		return nil, fmt.Errorf("publish job: %w", err)
	}

	uc.logger.Info("Analysis job submitted",
		zap.String("job_id", status.JobID.String()),
		zap.String("place", place))

	return status, nil
}

// Status возвращает статус задачи
func (uc *JobUseCase) Status(ctx context.Context, id uuid.UUID) (*domain.JobStatus, error) {
	status, err := uc.cacheRepo.GetJobStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job status: %w", err)
	}
	if status == nil {
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrJobNotFound)
	}
	return status, nil
}

// Complete записывает итог задачи и публикует его в stream:landcover:done
func (uc *JobUseCase) Complete(ctx context.Context, event domain.AnalysisRequestedEvent, report *domain.Report, jobErr error) error {
	status := &domain.JobStatus{
		JobID:     event.JobID,
		Place:     event.Place,
		State:     domain.JobDone,
		Report:    report,
		UpdatedAt: time.Now().UTC(),
	}
	done := domain.AnalysisDoneEvent{
		JobID:  event.JobID,
		Place:  event.Place,
		Report: report,
	}
	if jobErr != nil {
		status.State = domain.JobFailed
		status.Error = jobErr.Error()
		status.Report = nil
		done.Error = jobErr.Error()
		done.Report = nil
	}

	if err := uc.cacheRepo.SetJobStatus(ctx, status, uc.statusTTL); err != nil {
		uc.logger.Warn("Failed to save job status", zap.String("job_id", event.JobID.String()), zap.Error(err))
	}

	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamLandcoverDone, done); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}
