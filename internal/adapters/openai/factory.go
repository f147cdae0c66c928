package openai

import (
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/prompt"
	"go.uber.org/zap"
)

// Factory creates OpenAI classifiers
type Factory struct {
	cfg     *config.Config
	logger  *zap.Logger
	builder *prompt.Builder
}

// NewFactory creates a new OpenAI factory
func NewFactory(cfg *config.Config, logger *zap.Logger, builder *prompt.Builder) *Factory {
	return &Factory{
		cfg:     cfg,
		logger:  logger,
		builder: builder,
	}
}

// CreateClassifier creates a new OpenAI classifier
func (f *Factory) CreateClassifier() *OpenAIClassifier {
	openaiCfg := f.cfg.GetOpenAI()
	return NewOpenAIClassifier(
		openaiCfg.APIKey,
		openaiCfg.ModelName,
		f.builder,
		f.logger,
	)
}
