// Package narrative asks a generative model for a discount with prose reasoning and sales
// strategies. Callers treat the result as best effort and keep a formula fallback.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"deadstock/config"
	"deadstock/logging"
	"deadstock/metrics"
	"deadstock/models"
)

const breakerName = "gemini-narrative"

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no content received from AI")

// generateFunc sends one prompt and returns the concatenated text of the first candidate.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiGenerator produces discount narratives with a Gemini model.
// Calls are paced by a token bucket and guarded by a circuit breaker.
type GeminiGenerator struct {
	client   *genai.Client
	generate generateFunc
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker[*models.Narrative]
}

// NewGemini opens a Gemini client for cfg.Model.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"

	g := newGenerator(cfg, func(ctx context.Context, prompt string) (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		return responseText(resp)
	})
	g.client = client

	logging.Info().Str("model", cfg.Model).Float64("rate_per_second", cfg.RatePerSecond).Msg("[NARRATIVE] Gemini client ready")
	return g, nil
}

func newGenerator(cfg config.GeminiConfig, generate generateFunc) *GeminiGenerator {
	trips := cfg.BreakerTrips
	if trips == 0 {
		trips = 5
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*models.Narrative](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("from", from.String()).Str("to", to.String()).Msg("[NARRATIVE] circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &GeminiGenerator{
		generate: generate,
		limiter:  rate.NewLimiter(limit, burst),
		cb:       cb,
	}
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// GenerateDiscountNarrative asks the model for a discount, reasoning and four strategies.
func (g *GeminiGenerator) GenerateDiscountNarrative(ctx context.Context, in models.NarrativeContext) (*models.Narrative, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		metrics.NarrativeOutcomes.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("narrative rate limit: %w", err)
	}

	started := time.Now()
	n, err := g.cb.Execute(func() (*models.Narrative, error) {
		text, err := g.generate(ctx, BuildPrompt(in))
		if err != nil {
			return nil, err
		}
		return ParseNarrative(text)
	})
	metrics.NarrativeDuration.Observe(time.Since(started).Seconds())

	switch {
	case err == nil:
		metrics.NarrativeOutcomes.WithLabelValues("ok").Inc()
		return n, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.NarrativeOutcomes.WithLabelValues("rejected").Inc()
	case errors.Is(err, ErrUnparsable):
		metrics.NarrativeOutcomes.WithLabelValues("unparsable").Inc()
	default:
		metrics.NarrativeOutcomes.WithLabelValues("error").Inc()
	}
	logging.Debug().Err(err).Str("product", in.ProductName).Msg("[NARRATIVE] generation failed")
	return nil, err
}

// BuildPrompt renders the product context into the instruction sent to the model.
func BuildPrompt(in models.NarrativeContext) string {
	festivals := "No specific upcoming festival opportunities."
	if len(in.Festivals) > 0 {
		festivals = "Upcoming festival opportunities: " + strings.Join(in.Festivals, ", ") + "."
	}

	var b strings.Builder
	b.WriteString("As an expert retail analyst, determine the optimal discount percentage (as an integer from 0 to 70), ")
	b.WriteString("provide a concise and actionable reasoning for this discount, ")
	b.WriteString("and suggest 4 distinct sales strategies for the given product.\n\n")
	b.WriteString("Product Details:\n")
	fmt.Fprintf(&b, "- Name: '%s'\n", in.ProductName)
	fmt.Fprintf(&b, "- Category: %s\n", in.Category)
	fmt.Fprintf(&b, "- Original Price: ₹%.2f\n", in.Price)
	fmt.Fprintf(&b, "- Current Stock: %d units\n", in.StockQuantity)
	fmt.Fprintf(&b, "- Days in Stock: %d days\n", in.DaysInStock)
	fmt.Fprintf(&b, "- Sales Velocity (units/day): %g\n", in.SalesVelocity)
	fmt.Fprintf(&b, "- Product Health Score (0-1, lower is worse): %.2f (%s)\n", in.HealthScore, in.HealthStatus)
	fmt.Fprintf(&b, "- %s\n\n", festivals)
	b.WriteString(`Generate the response as a JSON object with the following structure:
{
  "recommended_discount": 0,
  "reasoning_text": "A single paragraph (80-120 words) explaining the discount, how it addresses product health, and the expected benefits.",
  "sales_strategies": [
    {"name": "Strategy Name", "description": "A brief, actionable description (1-2 sentences)."}
  ]
}
Return exactly 4 sales_strategies. Ensure the output is ONLY a valid JSON object with no markdown or extra text.`)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
