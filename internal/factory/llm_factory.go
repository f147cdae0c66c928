package factory

import (
	"fmt"

	"github.com/mikey/mail-triage/internal/adapters/bedrock"
	"github.com/mikey/mail-triage/internal/adapters/gemini"
	"github.com/mikey/mail-triage/internal/adapters/openai"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/prompt"
	"go.uber.org/zap"
)

// LLMFactory creates classifier backends
type LLMFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	builder *prompt.Builder
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, builder *prompt.Builder) *LLMFactory {
	return &LLMFactory{
		cfg:     cfg,
		logger:  logger,
		builder: builder,
	}
}

// CreateClassifier creates a classifier for the configured provider.
// Missing credentials fail here, before any network call.
func (f *LLMFactory) CreateClassifier() (core.Classifier, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.builder)
		return factory.CreateClassifier()
	case "openai":
		if f.cfg.GetOpenAI().APIKey == "" {
			return nil, &core.ConfigurationError{Reason: "OpenAI API key not configured"}
		}
		factory := openai.NewFactory(f.cfg, f.logger, f.builder)
		return factory.CreateClassifier(), nil
	case "gemini":
		if f.cfg.GetGemini().APIKey == "" {
			return nil, &core.ConfigurationError{Reason: "Gemini API key not configured"}
		}
		factory := gemini.NewFactory(f.cfg, f.logger, f.builder)
		return factory.CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
