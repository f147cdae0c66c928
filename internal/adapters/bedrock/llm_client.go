// Package bedrock implements the Classifier port using Anthropic Claude
// models on Amazon Bedrock.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/prompt"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// BedrockClassifier is an implementation of the Classifier interface
// using Anthropic Claude models on Amazon Bedrock
type BedrockClassifier struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	builder     *prompt.Builder
	logger      *zap.Logger
}

// NewBedrockClassifier creates a new Bedrock classifier
func NewBedrockClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	builder *prompt.Builder,
	logger *zap.Logger,
) *BedrockClassifier {
	return &BedrockClassifier{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		builder:     builder,
		logger:      logger,
	}
}

// anthropicRequest is the Anthropic messages payload for InvokeModel
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float32            `json:"temperature,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse carries the text blocks of the model's reply
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Classify sends the batch to the model in a single turn. The response
// is one text block; the JSON payload is extracted from it, since Claude
// may wrap it in conversational prose.
func (c *BedrockClassifier) Classify(ctx context.Context, emails []core.Email) ([]core.Classification, error) {
	payload, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: c.builder.Build(emails)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var modelResp anthropicResponse
	if err := json.Unmarshal(resp.Body, &modelResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Bedrock response: %w", err)
	}
	if len(modelResp.Content) == 0 {
		return nil, fmt.Errorf("empty response from Bedrock model")
	}

	c.logger.Debug("Received classification response",
		zap.String("model_id", c.modelID),
		zap.Int("batch_size", len(emails)))

	return prompt.ExtractClassifications(modelResp.Content[0].Text)
}
