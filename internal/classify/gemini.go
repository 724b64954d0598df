package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"spendwise/internal/logging"
	"spendwise/internal/models"

	"google.golang.org/genai"
)

// GeminiClassifier implements Classifier against the Gemini API. The model is
// asked for strict JSON and given the Google Search tool so it can resolve
// unfamiliar merchants; any search the model performs surfaces as grounding
// metadata which is mapped to GroundingSources.
type GeminiClassifier struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClassifier creates a classifier for the given model. The API key
// comes from configuration, not from package state.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClassifier{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// ClassifyChunk sends one chunk to the model and parses the verdicts. Errors
// are returned, never swallowed; the orchestrator owns the fallback policy.
func (g *GeminiClassifier) ClassifyChunk(ctx context.Context, items []Item, pctx PromptContext) (*ChunkResult, error) {
	prompt, err := buildUserPrompt(items)
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buildSystemInstruction(pctx), genai.RoleUser),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   classificationSchema(),
	}

	resp, err := g.client.Models.GenerateContent(reqCtx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	classifications, err := parseClassifications(rawText)
	if err != nil {
		return nil, err
	}

	return &ChunkResult{
		Classifications: classifications,
		Sources:         extractGroundingSources(resp),
	}, nil
}

// classificationSchema pins the response to a JSON array of per-transaction
// verdicts so the model cannot drift into prose or a wrapping object.
func classificationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":               {Type: genai.TypeString},
				"category":         {Type: genai.TypeString},
				"is_discretionary": {Type: genai.TypeBoolean},
			},
			Required: []string{"id", "category"},
		},
	}
}

// parseClassifications decodes the model's JSON array, tolerating Markdown
// fences and surrounding junk the model sometimes adds despite instructions.
func parseClassifications(raw string) ([]Classification, error) {
	clean := cleanModelJSON(raw)

	var classifications []Classification
	if err := json.Unmarshal([]byte(clean), &classifications); err != nil {
		return nil, fmt.Errorf("unmarshal classifications: %w", err)
	}
	return classifications, nil
}

// cleanModelJSON strips ```json fences and keeps only the first '[' through
// the last ']' when extra prose leaks around the array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

// extractGroundingSources maps the response's grounding metadata, if any, to
// provenance records. An empty result means the model answered from its own
// knowledge.
func extractGroundingSources(resp *genai.GenerateContentResponse) []models.GroundingSource {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []models.GroundingSource
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Search Result"
		}
		sources = append(sources, models.GroundingSource{
			Title: title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}
