package advisory

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

const (
	// DefaultGeminiModel is resource-light enough for per-case analysis
	DefaultGeminiModel    = "gemini-2.0-flash-lite"
	defaultEmbeddingModel = "gemini-embedding-001"
	embeddingDimensions   = 768
)

// Gemini is the remote advisory backend
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed advisory client. The genai client is
// constructed once per process and injected; this type carries no process-wide
// state of its own.
func NewGemini(client *genai.Client, model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}
}

// Name identifies the backend in logs
func (g *Gemini) Name() string { return "gemini" }

// Chat sends a system+user prompt and returns the raw response text
func (g *Gemini) Chat(ctx context.Context, system, user string) (string, error) {
	if g.client == nil {
		return "", ErrUnavailable
	}

	gm := g.client.GenerativeModel(g.model)
	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}
	gm.SetTemperature(0.2)
	gm.ResponseMIMEType = "application/json"

	resp, err := gm.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrEmpty
	}

	var builder strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	result := builder.String()
	if result == "" {
		return "", ErrEmpty
	}
	return result, nil
}

// GeminiEmbedder produces normalized query embeddings for policy retrieval
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates an embedder using the shared genai client
func NewGeminiEmbedder(client *genai.Client, model string) *GeminiEmbedder {
	if model == "" {
		model = defaultEmbeddingModel
	}
	return &GeminiEmbedder{client: client, model: model}
}

// Embed returns a unit-normalized 768-dimension embedding for the query text
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if e.client == nil {
		return nil, ErrUnavailable
	}

	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalQuery

	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, ErrEmpty
	}

	values := resp.Embedding.Values
	if len(values) > embeddingDimensions {
		values = values[:embeddingDimensions]
	}

	embedding := make([]float64, len(values))
	norm := 0.0
	for i, v := range values {
		embedding[i] = float64(v)
		norm += embedding[i] * embedding[i]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}

	return embedding, nil
}
