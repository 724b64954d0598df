package classify

import (
	"context"
	"math"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
	"spendwise/internal/vocab"
)

// DefaultChunkSize balances per-call payload size against per-call overhead
// and failure blast radius: a failed call discards one chunk's
// classification, never the whole batch.
const DefaultChunkSize = 50

// ProgressFunc receives the running percentage and the chunk that was just
// classified (or given fallback defaults). It runs synchronously between
// chunks and must not block for long, or it stalls the remaining chunks.
type ProgressFunc func(percent int, chunk []models.Transaction)

// Result is the outcome of one Classify call. FailedChunks is the degraded
// classification signal: chunks that fell back to "Other" because the
// external service failed. It lets callers surface degraded runs instead of
// silently defaulting with nothing but a log line.
type Result struct {
	Transactions []models.Transaction
	FailedChunks int
	TotalChunks  int
}

// Degraded reports whether any chunk fell back to defaults.
func (r Result) Degraded() bool {
	return r.FailedChunks > 0
}

// Orchestrator runs the chunked classification workflow. It holds no mutable
// state between calls; the personalization context is snapshotted once per
// call and never re-read mid-batch.
type Orchestrator struct {
	classifier      Classifier
	personalization PersonalizationSource
	definitions     []vocab.Definition
	chunkSize       int
	logger          logging.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithChunkSize overrides the default chunk size. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.chunkSize = n
		}
	}
}

// NewOrchestrator wires the orchestrator with its collaborators. The
// personalization source may be nil, in which case classification runs
// without user context.
func NewOrchestrator(classifier Classifier, personalization PersonalizationSource, definitions []vocab.Definition, logger logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier:      classifier,
		personalization: personalization,
		definitions:     definitions,
		chunkSize:       DefaultChunkSize,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Classify assigns category, discretionary flag and grounding sources to
// every input transaction. The returned slice contains every input id exactly
// once, chunk by chunk in input order. The amount and every other input field
// are never altered.
//
// Chunks are processed strictly sequentially: deterministic, monotonically
// increasing progress and bounded load on the external service. A failed
// chunk is classified as "Other" with no discretionary flag and no
// provenance, logged, counted in Result.FailedChunks, and the loop continues.
// onProgress fires after every chunk, fallback included, so progress bars
// never stall.
//
// Cancelling ctx stops the loop between chunks; the partial result
// accumulated so far is returned along with ctx's error.
func (o *Orchestrator) Classify(ctx context.Context, userID string, transactions []models.Transaction, onProgress ProgressFunc) (Result, error) {
	result := Result{}
	if len(transactions) == 0 {
		return result, nil
	}

	pctx := o.snapshotContext(ctx, userID)

	total := len(transactions)
	processed := 0
	result.Transactions = make([]models.Transaction, 0, total)

	for start := 0; start < total; start += o.chunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + o.chunkSize
		if end > total {
			end = total
		}
		chunk := transactions[start:end]
		result.TotalChunks++

		classified, failed := o.classifyChunk(ctx, result.TotalChunks-1, chunk, pctx)
		if failed {
			result.FailedChunks++
		}
		result.Transactions = append(result.Transactions, classified...)

		processed += len(chunk)
		if onProgress != nil {
			percent := int(math.Round(float64(processed) / float64(total) * 100))
			onProgress(percent, classified)
		}
	}

	return result, nil
}

// snapshotContext fetches the user's rules and category settings once for the
// whole batch. Personalization is optional: a fetch failure degrades to an
// empty context rather than blocking classification.
func (o *Orchestrator) snapshotContext(ctx context.Context, userID string) PromptContext {
	pctx := PromptContext{Definitions: o.definitions}
	if o.personalization == nil {
		return pctx
	}

	rules, err := o.personalization.GetUserRules(ctx, userID)
	if err != nil {
		o.logger.WithError(err).WithField(logging.FieldUser, userID).Warn("Failed to load user rules, classifying without them")
	} else {
		pctx.Rules = rules
	}

	settings, err := o.personalization.GetCategorySettings(ctx, userID)
	if err != nil {
		o.logger.WithError(err).WithField(logging.FieldUser, userID).Warn("Failed to load category settings, classifying without them")
	} else {
		pctx.Settings = settings
	}

	return pctx
}

// classifyChunk invokes the external service for one chunk and merges the
// verdicts back onto the transactions by id. On any error the whole chunk is
// defaulted to "Other".
func (o *Orchestrator) classifyChunk(ctx context.Context, index int, chunk []models.Transaction, pctx PromptContext) ([]models.Transaction, bool) {
	items := make([]Item, len(chunk))
	for i, t := range chunk {
		amount, _ := t.Amount.Float64()
		items[i] = Item{ID: t.ID, Description: t.Description, Amount: amount}
	}

	res, err := o.classifier.ClassifyChunk(ctx, items, pctx)
	if err != nil {
		o.logger.WithError(&parsererror.ClassificationError{Chunk: index, Err: err}).
			WithField(logging.FieldCount, len(chunk)).
			Warn("Classification failed for chunk, falling back to Other")
		return fallbackChunk(chunk), true
	}

	byID := make(map[string]Classification, len(res.Classifications))
	for _, c := range res.Classifications {
		byID[c.ID] = c
	}

	classified := make([]models.Transaction, len(chunk))
	for i, t := range chunk {
		out := t
		if c, ok := byID[t.ID]; ok && c.Category != "" {
			out.Category = c.Category
			if c.Discretionary != nil {
				out.Discretionary = c.Discretionary
			} else {
				discretionary := true
				out.Discretionary = &discretionary
			}
		} else {
			out.Category = models.CategoryOther
		}
		if len(res.Sources) > 0 {
			out.GroundingSources = res.Sources
		}
		classified[i] = out
	}
	return classified, false
}

// fallbackChunk marks every transaction in a failed chunk as "Other" with no
// discretionary flag and no provenance.
func fallbackChunk(chunk []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(chunk))
	for i, t := range chunk {
		fallback := t
		fallback.Category = models.CategoryOther
		fallback.Discretionary = nil
		fallback.GroundingSources = nil
		out[i] = fallback
	}
	return out
}
