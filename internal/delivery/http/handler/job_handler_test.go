package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landcover-microservice/internal/domain"
)

func TestJobHandler_SubmitJob(t *testing.T) {
	env := newTestEnv(t, true)

	code, raw := env.do(t, http.MethodPost, "/api/v1/jobs",
		bytes.NewBufferString(`{"place":"Lviv","policy":"coverage"}`), "application/json")
	require.Equal(t, http.StatusAccepted, code, string(raw))

	var status domain.JobStatus
	require.NoError(t, json.Unmarshal(decode(t, bytes.NewReader(raw)).Data, &status))
	assert.Equal(t, domain.JobPending, status.State)
	assert.NotEqual(t, uuid.Nil, status.JobID)

	require.Len(t, env.stream.published, 1)
	event, ok := env.stream.published[0].(domain.AnalysisRequestedEvent)
	require.True(t, ok)
	assert.Equal(t, "Lviv", event.Place)
	assert.Equal(t, domain.PolicyCoverage, event.Policy)
}

func TestJobHandler_SubmitJob_Invalid(t *testing.T) {
	env := newTestEnv(t, true)

	code, _ := env.do(t, http.MethodPost, "/api/v1/jobs", bytes.NewBufferString(`{"place":""}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodPost, "/api/v1/jobs", bytes.NewBufferString(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Empty(t, env.stream.published)
}

func TestJobHandler_GetJob(t *testing.T) {
	env := newTestEnv(t, true)

	code, _ := env.do(t, http.MethodGet, "/api/v1/jobs/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	// nop-кеш ничего не хранит
	code, raw := env.do(t, http.MethodGet, "/api/v1/jobs/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "JOB_NOT_FOUND", decode(t, bytes.NewReader(raw)).Error.Code)
}
