// Package openai implements the Classifier port using the OpenAI chat
// completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/prompt"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClassifier is an implementation of the Classifier interface
// using OpenAI
type OpenAIClassifier struct {
	client    *openai.Client
	modelName string
	builder   *prompt.Builder
	logger    *zap.Logger
}

// NewOpenAIClassifier creates a new OpenAI classifier
func NewOpenAIClassifier(
	apiKey string,
	modelName string,
	builder *prompt.Builder,
	logger *zap.Logger,
) *OpenAIClassifier {
	return &OpenAIClassifier{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		builder:   builder,
		logger:    logger,
	}
}

// Classify sends the batch to the model in a single turn. The request
// demands a JSON object response body, so no extraction from prose is
// needed.
func (c *OpenAIClassifier) Classify(ctx context.Context, emails []core.Email) ([]core.Classification, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.builder.Build(emails),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("Received classification response",
		zap.String("model", c.modelName),
		zap.String("completion_id", resp.ID),
		zap.Int("batch_size", len(emails)))

	return prompt.ParseClassifications(resp.Choices[0].Message.Content)
}
