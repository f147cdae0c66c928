// Package gemini implements the Classifier port using Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/prompt"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClassifier is an implementation of the Classifier interface
// using Google Gemini
type GeminiClassifier struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	builder   *prompt.Builder
	logger    *zap.Logger
}

// NewGeminiClassifier creates a new Gemini classifier
func NewGeminiClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	builder *prompt.Builder,
	logger *zap.Logger,
) (*GeminiClassifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClassifier{
		client:    client,
		model:     model,
		modelName: modelName,
		builder:   builder,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify sends the batch to the model in a single turn. Gemini replies
// with free-form text, so the JSON payload is extracted from it.
func (c *GeminiClassifier) Classify(ctx context.Context, emails []core.Email) ([]core.Classification, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(c.builder.Build(emails)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	c.logger.Debug("Received classification response",
		zap.String("model", c.modelName),
		zap.Int("batch_size", len(emails)))

	return prompt.ExtractClassifications(responseText)
}
