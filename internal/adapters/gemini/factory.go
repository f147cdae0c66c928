package gemini

import (
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/prompt"
	"go.uber.org/zap"
)

// Factory creates Gemini classifiers
type Factory struct {
	cfg     *config.Config
	logger  *zap.Logger
	builder *prompt.Builder
}

// NewFactory creates a new Gemini factory
func NewFactory(cfg *config.Config, logger *zap.Logger, builder *prompt.Builder) *Factory {
	return &Factory{
		cfg:     cfg,
		logger:  logger,
		builder: builder,
	}
}

// CreateClassifier creates a new Gemini classifier
func (f *Factory) CreateClassifier() (*GeminiClassifier, error) {
	geminiCfg := f.cfg.GetGemini()
	return NewGeminiClassifier(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		f.builder,
		f.logger,
	)
}
