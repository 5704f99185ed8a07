package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/worker/analysis"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	return m.Called(ctx, stream, group, messageIDs).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) ProcessByPlace(ctx context.Context, place string, opts usecase.AnalysisOptions) (*usecase.AnalysisResult, error) {
	args := m.Called(ctx, place, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AnalysisResult), args.Error(1)
}

type MockJobCompleter struct {
	mock.Mock
}

func (m *MockJobCompleter) Complete(ctx context.Context, event domain.AnalysisRequestedEvent, report *domain.Report, jobErr error) error {
	return m.Called(ctx, event, report, jobErr).Error(0)
}

const group = "test-group"

func message(t *testing.T, id string, event domain.AnalysisRequestedEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{
		ID:     id,
		Stream: domain.StreamLandcoverAnalyze,
		Data:   map[string]interface{}{"data": string(data)},
	}
}

func TestAnalysisWorker_Name(t *testing.T) {
	w := analysis.NewAnalysisWorker(&MockStreamRepository{}, &MockAnalyzer{}, &MockJobCompleter{}, group, 0, 0, zap.NewNop())
	assert.Equal(t, "landcover-analysis", w.Name())
	assert.Equal(t, domain.StreamLandcoverAnalyze, w.Stream())
	assert.Equal(t, group, w.ConsumerGroup())
}

func TestAnalysisWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	streamRepo := &MockStreamRepository{}
	analyzer := &MockAnalyzer{}
	jobs := &MockJobCompleter{}

	event := domain.AnalysisRequestedEvent{
		JobID:  uuid.New(),
		Place:  "Lviv",
		Policy: domain.PolicyCoverage,
	}
	report := &domain.Report{Place: "Lviv", TreesToPlant: 42}

	streamRepo.On("ConsumeBatch", ctx, domain.StreamLandcoverAnalyze, group, mock.Anything, 5).
		Return([]domain.StreamMessage{
			message(t, "1-0", event),
			{ID: "2-0", Data: map[string]interface{}{"data": "{broken"}},
		}, nil)
	streamRepo.On("AckMessages", ctx, domain.StreamLandcoverAnalyze, group, []string{"1-0", "2-0"}).Return(nil)

	analyzer.On("ProcessByPlace", ctx, "Lviv", usecase.AnalysisOptions{Policy: domain.PolicyCoverage}).
		Return(&usecase.AnalysisResult{Report: report}, nil)
	jobs.On("Complete", ctx, event, report, nil).Return(nil)

	w := analysis.NewAnalysisWorker(streamRepo, analyzer, jobs, group, 5, 2, zap.NewNop())
	n, err := w.ProcessBatch(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(1), w.Stats().Processed)
	assert.Equal(t, int64(1), w.Stats().Skipped)
	streamRepo.AssertExpectations(t)
	analyzer.AssertExpectations(t)
	jobs.AssertExpectations(t)
}

func TestAnalysisWorker_PermanentErrorNotRetried(t *testing.T) {
	ctx := context.Background()
	streamRepo := &MockStreamRepository{}
	analyzer := &MockAnalyzer{}
	jobs := &MockJobCompleter{}

	event := domain.AnalysisRequestedEvent{JobID: uuid.New(), Place: "Atlantis"}

	streamRepo.On("ConsumeBatch", ctx, domain.StreamLandcoverAnalyze, group, mock.Anything, 5).
		Return([]domain.StreamMessage{message(t, "1-0", event)}, nil)
	streamRepo.On("AckMessages", ctx, domain.StreamLandcoverAnalyze, group, []string{"1-0"}).Return(nil)

	analyzer.On("ProcessByPlace", ctx, "Atlantis", mock.Anything).Return(nil, domain.ErrPlaceNotFound).Once()
	jobs.On("Complete", ctx, event, (*domain.Report)(nil), domain.ErrPlaceNotFound).Return(nil)

	w := analysis.NewAnalysisWorker(streamRepo, analyzer, jobs, group, 5, 3, zap.NewNop())
	_, err := w.ProcessBatch(ctx)

	require.NoError(t, err)
	analyzer.AssertNumberOfCalls(t, "ProcessByPlace", 1)
	assert.Equal(t, int64(1), w.Stats().Failed)
	jobs.AssertExpectations(t)
}

func TestAnalysisWorker_TransientErrorRetried(t *testing.T) {
	ctx := context.Background()
	streamRepo := &MockStreamRepository{}
	analyzer := &MockAnalyzer{}
	jobs := &MockJobCompleter{}

	event := domain.AnalysisRequestedEvent{JobID: uuid.New(), Place: "Lviv"}
	report := &domain.Report{Place: "Lviv"}

	streamRepo.On("ConsumeBatch", ctx, domain.StreamLandcoverAnalyze, group, mock.Anything, 5).
		Return([]domain.StreamMessage{message(t, "1-0", event)}, nil)
	streamRepo.On("AckMessages", ctx, domain.StreamLandcoverAnalyze, group, []string{"1-0"}).Return(nil)

	analyzer.On("ProcessByPlace", ctx, "Lviv", mock.Anything).Return(nil, domain.ErrImageUnavailable).Once()
	analyzer.On("ProcessByPlace", ctx, "Lviv", mock.Anything).Return(&usecase.AnalysisResult{Report: report}, nil).Once()
	jobs.On("Complete", ctx, event, report, nil).Return(nil)

	w := analysis.NewAnalysisWorker(streamRepo, analyzer, jobs, group, 5, 1, zap.NewNop())
	_, err := w.ProcessBatch(ctx)

	require.NoError(t, err)
	analyzer.AssertNumberOfCalls(t, "ProcessByPlace", 2)
	assert.Equal(t, int64(1), w.Stats().Processed)
	jobs.AssertExpectations(t)
}

func TestAnalysisWorker_ConsumeError(t *testing.T) {
	ctx := context.Background()
	streamRepo := &MockStreamRepository{}
	streamRepo.On("ConsumeBatch", ctx, domain.StreamLandcoverAnalyze, group, mock.Anything, 5).
		Return(nil, errors.New("redis down"))

	w := analysis.NewAnalysisWorker(streamRepo, &MockAnalyzer{}, &MockJobCompleter{}, group, 5, 0, zap.NewNop())
	n, err := w.ProcessBatch(ctx)

	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestAnalysisWorker_StartStop(t *testing.T) {
	streamRepo := &MockStreamRepository{}
	streamRepo.On("CreateConsumerGroup", mock.Anything, domain.StreamLandcoverAnalyze, group).Return(nil)
	streamRepo.On("ConsumeBatch", mock.Anything, domain.StreamLandcoverAnalyze, group, mock.Anything, 5).
		Return([]domain.StreamMessage{}, nil)

	w := analysis.NewAnalysisWorker(streamRepo, &MockAnalyzer{}, &MockJobCompleter{}, group, 5, 0, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, w.IsStopped())
}

func TestAnalysisWorker_ConsumerGroupError(t *testing.T) {
	streamRepo := &MockStreamRepository{}
	streamRepo.On("CreateConsumerGroup", mock.Anything, domain.StreamLandcoverAnalyze, group).Return(errors.New("boom"))

	w := analysis.NewAnalysisWorker(streamRepo, &MockAnalyzer{}, &MockJobCompleter{}, group, 5, 0, zap.NewNop())
	assert.Error(t, w.Start(context.Background()))
}
