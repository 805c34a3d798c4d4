package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultEmbeddingModel = "text-embedding-004"

type geminiEmbedder struct {
	client     *genai.Client
	model      string
	dimension  int
	maxRetries int
	log        *zap.Logger
}

// NewGeminiEmbedder returns an Embedder backed by the Gemini embedding API,
// truncated to the requested output dimension.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dimension, maxRetries int, log *zap.Logger) (Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension: %d", dimension)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiEmbedder{
		client:     client,
		model:      model,
		dimension:  dimension,
		maxRetries: maxRetries,
		log:        log,
	}, nil
}

func (g *geminiEmbedder) ModelName() string {
	return g.model
}

func (g *geminiEmbedder) Dimension() int {
	return g.dimension
}

// Embed implements Embedder.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		vec, err := g.embedOnce(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < g.maxRetries {
			g.log.Warn("embedding attempt failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

func (g *geminiEmbedder) embedOnce(ctx context.Context, text string) ([]float32, error) {
	dim := int32(g.dimension)
	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType:             "SEMANTIC_SIMILARITY",
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
