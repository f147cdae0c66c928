package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/adapters/cache"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/logging"
	"github.com/mikey/mail-triage/internal/prompt"
	"github.com/mikey/mail-triage/internal/server"
	"github.com/mikey/mail-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor and prompt builder
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, tp *utils.TextProcessor) *prompt.Builder {
		return prompt.NewBuilder(tp, cfg.GetTriage().MaxPreviewSize)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailFactory); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.LLMFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register mail client
	if err := container.Provide(func(f *factory.MailFactory) (core.MailClient, error) {
		return f.CreateMailClient()
	}); err != nil {
		return nil, err
	}

	// Register triage store
	if err := container.Provide(func(logger *zap.Logger) core.TriageStore {
		return cache.NewMemoryStore(logger)
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(func(
		cfg *config.Config,
		mail core.MailClient,
		classifier core.Classifier,
		store core.TriageStore,
		logger *zap.Logger,
	) (*core.TriageService, error) {
		location := time.Local
		if name := cfg.GetTriage().Location; name != "" && name != "Local" {
			loc, err := time.LoadLocation(name)
			if err != nil {
				return nil, err
			}
			location = loc
		}
		return core.NewTriageService(mail, classifier, store, logger, location, time.Now), nil
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(
		cfg *config.Config,
		service *core.TriageService,
		logger *zap.Logger,
	) *server.Server {
		return server.New(service, logger, cfg.GetServer().ListenAddress)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
