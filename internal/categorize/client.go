// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/tomtom215/orbitstats/internal/models"
)

// Response is the raw model answer for one batch.
type Response struct {
	Text         string
	InputTokens  int32
	OutputTokens int32
	// Truncated is set when generation stopped at the output token limit.
	Truncated bool
}

// Client sends one categorization prompt.
type Client interface {
	Generate(ctx context.Context, prompt string, batch Batch) (*Response, error)
	Close() error
}

// GeminiClient calls the Gemini API.
type GeminiClient struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
}

// NewGeminiClient creates a Gemini client for model.
func NewGeminiClient(ctx context.Context, apiKey, model string, maxOutputTokens int32) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model, maxOutputTokens: maxOutputTokens}, nil
}

// Generate sends the prompt and asks for a JSON response.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, _ Batch) (*Response, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		MaxOutputTokens:  c.maxOutputTokens,
		ResponseMIMEType: "application/json",
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	resp := &Response{Text: result.Text()}
	if u := result.UsageMetadata; u != nil {
		resp.InputTokens = u.PromptTokenCount
		resp.OutputTokens = u.CandidatesTokenCount
	}
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		resp.Truncated = true
	}
	if c.maxOutputTokens > 0 && resp.OutputTokens >= c.maxOutputTokens {
		resp.Truncated = true
	}
	return resp, nil
}

// Close is a no-op; the genai client holds no resources that need release.
func (c *GeminiClient) Close() error { return nil }

// DryRunClient answers every batch locally. Each idea gets a category picked
// from a name-based UUID of its id, so repeated runs agree.
type DryRunClient struct {
	categories []string
}

// NewDryRunClient creates a client choosing among categories.
func NewDryRunClient(categories []string) *DryRunClient {
	return &DryRunClient{categories: categories}
}

// Generate returns a JSON array covering every input of the batch.
func (c *DryRunClient) Generate(ctx context.Context, _ string, batch Batch) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.CategorizedIdea, 0, len(batch.Inputs))
	for _, in := range batch.Inputs {
		out = append(out, models.CategorizedIdea{ID: in.ID, Category: c.pick(in.ID)})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode dry-run response: %w", err)
	}
	return &Response{Text: string(data)}, nil
}

func (c *DryRunClient) pick(id string) string {
	if len(c.categories) == 0 {
		return ""
	}
	u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
	n := binary.BigEndian.Uint64(u[:8])
	return c.categories[n%uint64(len(c.categories))]
}

// Close releases nothing.
func (c *DryRunClient) Close() error { return nil }
