package factory

import (
	"fmt"
	"net/http"

	"github.com/mikey/mail-triage/internal/adapters/jmap"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// MailFactory creates mail clients
type MailFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailFactory creates a new mail factory
func NewMailFactory(cfg *config.Config, logger *zap.Logger) *MailFactory {
	return &MailFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailClient creates the JMAP mail client
func (f *MailFactory) CreateMailClient() (core.MailClient, error) {
	jmapCfg := f.cfg.GetJMAP()
	if jmapCfg.APIKey == "" {
		return nil, &core.ConfigurationError{Reason: "JMAP API key not configured"}
	}

	timeout, err := f.cfg.GetDuration("jmap.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid jmap timeout: %w", err)
	}

	httpClient := &http.Client{Timeout: timeout}
	return jmap.NewClient(jmapCfg.BaseURL, jmapCfg.APIKey, httpClient, f.logger), nil
}
