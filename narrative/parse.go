package narrative

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"deadstock/models"
)

// ErrUnparsable marks model output that holds no usable JSON object.
var ErrUnparsable = errors.New("narrative response is not valid JSON")

// extractJSON returns the text between the first '{' and the last '}'.
// Models often wrap the object in markdown fences or a sentence of preamble.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

// narrativeResponse mirrors the JSON shape requested in the prompt. Discount is a pointer so a
// missing field can be told apart from an explicit zero.
type narrativeResponse struct {
	Discount   *float64               `json:"recommended_discount"`
	Reasoning  string                 `json:"reasoning_text"`
	Strategies []models.SalesStrategy `json:"sales_strategies"`
}

// ParseNarrative decodes the model's answer. An answer without a discount is unparsable.
// Strategies without a name are dropped.
func ParseNarrative(raw string) (*models.Narrative, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, ErrUnparsable
	}

	var resp narrativeResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	if resp.Discount == nil {
		return nil, fmt.Errorf("%w: recommended_discount is missing", ErrUnparsable)
	}

	strategies := make([]models.SalesStrategy, 0, len(resp.Strategies))
	for _, s := range resp.Strategies {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		strategies = append(strategies, s)
	}
	return &models.Narrative{
		Discount:   *resp.Discount,
		Reasoning:  strings.TrimSpace(resp.Reasoning),
		Strategies: strategies,
	}, nil
}
