package narrative

import (
	"context"
	"time"

	"deadstock/models"
)

// Stub is a canned generator for local runs and tests. It waits Delay (honouring ctx),
// then returns Err if set, otherwise a copy of Narrative.
type Stub struct {
	Narrative models.Narrative
	Err       error
	Delay     time.Duration
}

func (s Stub) GenerateDiscountNarrative(ctx context.Context, _ models.NarrativeContext) (*models.Narrative, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	n := s.Narrative
	n.Strategies = append([]models.SalesStrategy(nil), s.Narrative.Strategies...)
	return &n, nil
}
