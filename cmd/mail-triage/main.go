package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mikey/mail-triage/internal/adapters/cache"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/logging"
	"github.com/mikey/mail-triage/internal/prompt"
	"github.com/mikey/mail-triage/internal/utils"
	"go.uber.org/zap"
)

var (
	// LLM provider flags
	provider       = flag.String("provider", "openai", "LLM provider (bedrock, openai, gemini)")
	openaiAPIKey   = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModel    = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")
	geminiAPIKey   = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModel    = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Mail provider flags
	jmapBaseURL = flag.String("jmap-url", "https://api.fastmail.com/jmap", "JMAP endpoint base URL")
	jmapAPIKey  = flag.String("jmap-api-key", "", "JMAP bearer token")

	// Output flags
	window     = flag.String("window", "", "Print a single window (today, yesterday, week)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.Bool("config", false, "Load configuration from file instead of flags")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
	} else {
		cfg = createConfigFromFlags()
	}

	textProcessor := utils.NewTextProcessor(logger)
	builder := prompt.NewBuilder(textProcessor, cfg.GetTriage().MaxPreviewSize)

	mailClient, err := factory.NewMailFactory(cfg, logger).CreateMailClient()
	if err != nil {
		logger.Fatal("Failed to create mail client", zap.Error(err))
	}

	classifier, err := factory.NewLLMFactory(cfg, logger, builder).CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	store := cache.NewMemoryStore(logger)
	service := core.NewTriageService(mailClient, classifier, store, logger, time.Local, time.Now)

	ctx := context.Background()
	if err := service.RunFullCycle(ctx); err != nil {
		logger.Fatal("Triage cycle failed", zap.Error(err))
	}

	if *window != "" {
		printWindow(core.Window(*window), service.Emails(core.Window(*window)))
	} else {
		for _, w := range core.Windows {
			printWindow(w, service.Emails(w))
		}
	}

	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
}

// createConfigFromFlags builds a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)
	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.model_name", *openaiModel)
	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModelID)
	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModel)
	v.Set("jmap.base_url", *jmapBaseURL)
	v.Set("jmap.api_key", *jmapAPIKey)

	return config.NewFromViper(v)
}

// printWindow renders one triage window to stdout, actionable first
func printWindow(window core.Window, emails []core.TriageEmail) {
	fmt.Printf("=== %s ===\n", window)
	if len(emails) == 0 {
		fmt.Println("No important emails for this period")
		fmt.Println()
		return
	}

	for _, category := range []core.Category{core.CategoryActionable, core.CategoryInformational} {
		for _, email := range emails {
			if email.Category != category {
				continue
			}
			sender := email.SenderEmail()
			if len(email.From) > 0 && email.From[0].Name != "" {
				sender = email.From[0].Name
			}
			fmt.Printf("[%s] %s\n", email.Category, email.Subject)
			fmt.Printf("  From:    %s\n", sender)
			fmt.Printf("  Summary: %s\n", email.Summary)
			for _, line := range email.Context {
				fmt.Printf("    - %s\n", line)
			}
			fmt.Printf("  Action:  %s\n", email.Action)
			fmt.Println()
		}
	}
}
