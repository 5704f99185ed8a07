package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landcover-microservice/internal/delivery/http/handler"
)

func TestNewExplorerHandler(t *testing.T) {
	h, err := handler.NewExplorerHandler("/api/v1")
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestDefaultPolicies(t *testing.T) {
	policies := handler.DefaultPolicies()

	values := make([]string, 0, len(policies))
	selected := 0
	for _, p := range policies {
		values = append(values, p.Value)
		if p.Selected {
			selected++
		}
	}
	assert.Equal(t, []string{"auto", "coverage", "aqi"}, values)
	assert.Equal(t, 1, selected)
}
