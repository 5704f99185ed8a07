package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamLandcoverAnalyze = "stream:landcover:analyze"
	StreamLandcoverDone    = "stream:landcover:done"
)

// JobState - состояние задачи анализа
type JobState string

const (
	JobPending JobState = "pending"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// AnalysisRequestedEvent - входящее событие на анализ места
type AnalysisRequestedEvent struct {
	JobID     uuid.UUID      `json:"job_id"`
	Place     string         `json:"place"`
	ProfileID string         `json:"profile_id,omitempty"`
	Policy    PlantingPolicy `json:"policy,omitempty"`
	Refresh   bool           `json:"refresh,omitempty"`
}

// Validate проверяет обязательные поля события
func (e AnalysisRequestedEvent) Validate() error {
	if e.JobID == uuid.Nil {
		return errors.New("event has no job_id")
	}
	if strings.TrimSpace(e.Place) == "" {
		return errors.New("event has no place")
	}
	switch e.Policy {
	case "", PolicyAuto, PolicyCoverage, PolicyAQI:
	default:
		return errors.New("event has unknown policy " + string(e.Policy))
	}
	return nil
}

// AnalysisDoneEvent - результат анализа
type AnalysisDoneEvent struct {
	JobID  uuid.UUID `json:"job_id"`
	Place  string    `json:"place"`
	Report *Report   `json:"report,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// JobStatus - статус задачи, хранится в кеше
type JobStatus struct {
	JobID     uuid.UUID `json:"job_id"`
	Place     string    `json:"place"`
	State     JobState  `json:"state"`
	Report    *Report   `json:"report,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID     string
	Stream string
	Data   map[string]interface{}
}
