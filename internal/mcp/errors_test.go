package mcp

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	p, err := project.NewProject("p1", "Scarf", "", time.Now())
	require.NoError(t, err)
	_, err = p.AddCounter("c1", project.CreateCounterRequest{Name: "Rows", Min: 0, Max: 10, Step: 0})
	require.Error(t, err)

	apiErr := MapError(fmt.Errorf("create counter: %w", err))
	require.NotNil(t, apiErr)
	require.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	require.Equal(t, map[string]string{"field": "step"}, apiErr.Details)

	_, err = p.Increment("missing")
	apiErr = MapError(err)
	require.NotNil(t, apiErr)
	require.Equal(t, "COUNTER_NOT_FOUND", apiErr.Code)

	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))
}
