package services

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadstock/apperrors"
	"deadstock/metrics"
)

func TestRunStagePrimarySucceeds(t *testing.T) {
	res, err := runStage("primary_ok",
		value(func() int { return 1 }),
		value(func() int { return 2 }),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Value)
	assert.False(t, res.Degraded)
}

func TestRunStageRecoversPanic(t *testing.T) {
	before := testutil.ToFloat64(metrics.StageFallbacks.WithLabelValues("panicking"))

	res, err := runStage("panicking",
		value(func() int {
			var m map[string]int
			m["boom"]++
			return 1
		}),
		value(func() int { return 2 }),
	)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Value)
	assert.True(t, res.Degraded)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StageFallbacks.WithLabelValues("panicking")))
}

func TestRunStagePrimaryError(t *testing.T) {
	res, err := runStage("erroring",
		func() (string, error) { return "", errors.New("bad input") },
		value(func() string { return "fallback" }),
	)
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Value)
	assert.True(t, res.Degraded)
}

func TestRunStageFallbackFails(t *testing.T) {
	_, err := runStage("doomed",
		func() (int, error) { return 0, errors.New("primary") },
		func() (int, error) { panic("fallback") },
	)

	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAggregateFailure, appErr.Code)
	assert.Equal(t, "doomed", appErr.Stage)
	assert.True(t, apperrors.IsUserVisible(err))
}
