package services

import (
	"fmt"
	"runtime/debug"

	"deadstock/apperrors"
	"deadstock/logging"
	"deadstock/metrics"
)

// Pipeline stage names, as reported in AnalysisResult.DegradedStages.
const (
	StageHealth               = "health"
	StageLocation             = "location"
	StageFestivals            = "festival_recommendations"
	StageProductOpportunities = "product_festival_opportunities"
	StageDiscount             = "discount"
	StageBundles              = "bundles"
	StageRescue               = "rescue_score"
)

// stageResult is the tagged outcome of one guarded stage.
type stageResult[T any] struct {
	Value    T
	Degraded bool
}

// guard runs fn, converting a panic into an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn()
}

// runStage runs the primary computation and, if it errors or panics, the fallback.
// It only fails when the fallback fails too.
func runStage[T any](name string, primary, fallback func() (T, error)) (stageResult[T], error) {
	v, err := guard(primary)
	if err == nil {
		return stageResult[T]{Value: v}, nil
	}

	logging.Warn().
		Err(apperrors.StageComputation(name, err)).
		Str("stage", name).
		Msg("[ANALYZE] stage failed, using fallback")
	metrics.StageFallbacks.WithLabelValues(name).Inc()

	v, ferr := guard(fallback)
	if ferr != nil {
		return stageResult[T]{}, apperrors.AggregateFailure(name, ferr)
	}
	return stageResult[T]{Value: v, Degraded: true}, nil
}

// value wraps an infallible computation for runStage.
func value[T any](fn func() T) func() (T, error) {
	return func() (T, error) { return fn(), nil }
}
