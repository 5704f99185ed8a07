package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/landcover"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/worker"
)

const (
	defaultBatchSize = 5
	emptyQueueSleep  = 200 * time.Millisecond
	errorSleep       = time.Second
	retryBackoff     = 200 * time.Millisecond
)

// Analyzer - анализ места по названию
type Analyzer interface {
	ProcessByPlace(ctx context.Context, place string, opts usecase.AnalysisOptions) (*usecase.AnalysisResult, error)
}

// JobCompleter фиксирует результат задачи
type JobCompleter interface {
	Complete(ctx context.Context, event domain.AnalysisRequestedEvent, report *domain.Report, jobErr error) error
}

// AnalysisWorker читает stream:landcover:analyze и выполняет анализ мест
type AnalysisWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	analyzer     Analyzer
	jobs         JobCompleter
	consumerName string
	batchSize    int
	maxRetries   int
}

// NewAnalysisWorker создает новый AnalysisWorker
func NewAnalysisWorker(
	streamRepo repository.StreamRepository,
	analyzer Analyzer,
	jobs JobCompleter,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *AnalysisWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &AnalysisWorker{
		BaseWorker:   worker.NewBaseWorker("landcover-analysis", domain.StreamLandcoverAnalyze, consumerGroup, logger),
		streamRepo:   streamRepo,
		analyzer:     analyzer,
		jobs:         jobs,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}
}

// Start запускает цикл обработки
func (w *AnalysisWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting analysis worker",
		zap.String("stream", w.Stream()),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.Stream(), w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.sleep(ctx, errorSleep)
			continue
		}
		if processed == 0 {
			w.sleep(ctx, emptyQueueSleep)
		}
	}
}

// ProcessBatch читает до batchSize сообщений и обрабатывает их по очереди.
// Возвращает количество прочитанных сообщений.
func (w *AnalysisWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(ctx, w.Stream(), w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	acked := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			// битое сообщение подтверждаем, чтобы не застревало в PEL
			w.Logger().Warn("Skipping malformed message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			w.MarkSkipped()
			acked = append(acked, msg.ID)
			continue
		}

		w.handle(ctx, event)
		acked = append(acked, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, w.Stream(), w.ConsumerGroup(), acked); err != nil {
		// не критично, сообщения будут переобработаны
		w.Logger().Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

func (w *AnalysisWorker) handle(ctx context.Context, event *domain.AnalysisRequestedEvent) {
	logger := w.Logger().With(
		zap.String("job_id", event.JobID.String()),
		zap.String("place", event.Place))

	opts := usecase.AnalysisOptions{
		ProfileID: event.ProfileID,
		Policy:    event.Policy,
		Refresh:   event.Refresh,
	}

	var (
		result *usecase.AnalysisResult
		err    error
	)
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying analysis", zap.Int("attempt", attempt), zap.Error(err))
			if !w.sleep(ctx, retryBackoff*time.Duration(attempt)) {
				break
			}
		}
		result, err = w.analyzer.ProcessByPlace(ctx, event.Place, opts)
		if err == nil || !retryable(err) {
			break
		}
	}

	var report *domain.Report
	if err != nil {
		logger.Warn("Analysis job failed", zap.Error(err))
		w.MarkFailed()
	} else {
		report = result.Report
		logger.Info("Analysis job done",
			zap.Bool("cached", result.Cached),
			zap.Int("trees_to_plant", report.TreesToPlant))
		w.MarkProcessed()
	}

	if cerr := w.jobs.Complete(ctx, *event, report, err); cerr != nil {
		logger.Error("Failed to publish job result", zap.Error(cerr))
	}
}

// sleep возвращает false, если воркер остановлен во время ожидания
func (w *AnalysisWorker) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-w.StopChan():
		return false
	case <-ctx.Done():
		return false
	}
}

// retryable - ошибки входных данных и калибровки повторять бессмысленно
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, landcover.ErrValidation),
		errors.Is(err, landcover.ErrConfiguration),
		errors.Is(err, domain.ErrPlaceNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrCalibrationUnavailable):
		return false
	}
	return true
}

func parseMessage(msg domain.StreamMessage) (*domain.AnalysisRequestedEvent, error) {
	data, ok := msg.Data["data"].(string)
	if !ok {
		return nil, errors.New("missing or invalid 'data' field")
	}

	var event domain.AnalysisRequestedEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}
