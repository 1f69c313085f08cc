package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"deadstock/models"
	"deadstock/reference"
)

var (
	testTablesOnce sync.Once
	testTables     *reference.Tables
)

// tables loads the embedded reference data once per test binary.
func tables(t *testing.T) *reference.Tables {
	t.Helper()
	testTablesOnce.Do(func() {
		testTables = reference.MustLoad()
	})
	return testTables
}

// clockAt returns a clock frozen at the given date, noon UTC.
func clockAt(year int, month time.Month, day int) func() time.Time {
	ts := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

// fiveDaysBeforeDiwali is 2025-10-18; Diwali falls on 10-23 in the calendar.
var fiveDaysBeforeDiwali = clockAt(2025, time.October, 18)

func scenarioOneProduct() models.ProductInput {
	return models.ProductInput{
		Name:          "Cotton Kurti",
		Category:      "clothing",
		Price:         1000,
		StockQuantity: 50,
		DaysInStock:   200,
		SalesVelocity: 0.5,
		Location:      "mumbai",
	}
}

// narrativeFunc adapts a function to NarrativeGenerator.
type narrativeFunc func(ctx context.Context, in models.NarrativeContext) (*models.Narrative, error)

func (f narrativeFunc) GenerateDiscountNarrative(ctx context.Context, in models.NarrativeContext) (*models.Narrative, error) {
	return f(ctx, in)
}

// blockingNarrative waits until the context gives up.
var blockingNarrative = narrativeFunc(func(ctx context.Context, _ models.NarrativeContext) (*models.Narrative, error) {
	<-ctx.Done()
	return nil, ctx.Err()
})
