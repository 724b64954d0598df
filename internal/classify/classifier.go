// Package classify assigns a spending category and a discretionary flag to
// every transaction in a batch by calling an external, rate-limited, fallible
// classification service. The work is chunked, strictly sequential, and
// fault-tolerant: a failed chunk falls back to safe defaults instead of
// aborting the batch, and fractional progress is reported after every chunk.
package classify

import (
	"context"

	"spendwise/internal/models"
	"spendwise/internal/vocab"
)

// Item is the only view of a transaction the external service ever sees.
// Unrelated fields must not leak into the request payload.
type Item struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Classification is the per-transaction verdict returned by the service.
type Classification struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Discretionary *bool  `json:"is_discretionary,omitempty"`
}

// ChunkResult is the outcome of classifying one chunk. Sources carry the
// provenance of any external lookups the service performed and apply to the
// whole chunk.
type ChunkResult struct {
	Classifications []Classification
	Sources         []models.GroundingSource
}

// PromptContext is the free-text personalization context sent alongside each
// chunk: the category vocabulary plus the user's learned rules and
// discretionary preferences. Empty slices simply omit the corresponding
// instruction.
type PromptContext struct {
	Definitions []vocab.Definition
	Rules       []models.UserRule
	Settings    models.CategorySettings
}

// Classifier is the external classification service contract. Implementations
// must not panic on malformed service output; return an error and let the
// orchestrator apply its fallback.
type Classifier interface {
	ClassifyChunk(ctx context.Context, items []Item, pctx PromptContext) (*ChunkResult, error)
}

// PersonalizationSource supplies the user's saved classification context.
type PersonalizationSource interface {
	GetUserRules(ctx context.Context, userID string) ([]models.UserRule, error)
	GetCategorySettings(ctx context.Context, userID string) (models.CategorySettings, error)
}
