package stub

import (
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"bank-chat-client/internal/config"
)

// NewFromConfig builds the responder chain (fixtures, then the language
// model when a key is configured, then canned replies) behind a Service.
func NewFromConfig(cfg config.Config, logger *zap.Logger) (*Service, error) {
	var file File
	if cfg.StubResponsesFile != "" {
		f, err := LoadFile(cfg.StubResponsesFile)
		if err != nil {
			return nil, err
		}
		file = f
		logger.Info("loaded stub responses",
			zap.String("path", cfg.StubResponsesFile),
			zap.Int("responses", len(f.Responses)),
			zap.Int("fixtures", len(f.Fixtures)),
		)
	}

	responders := []Responder{NewFixtures(file.Fixtures)}
	if cfg.OpenAIAPIKey != "" {
		responders = append(responders, NewOpenAI(openai.NewClient(cfg.OpenAIAPIKey), cfg.Model, file.Prompt))
	}
	responders = append(responders, NewCanned(file.Responses))

	return NewService(NewChain(logger, responders...), Options{
		MinDelay:      cfg.StubMinDelay,
		MaxDelay:      cfg.StubMaxDelay,
		RatePerSecond: cfg.StubRatePerSecond,
		RateBurst:     cfg.StubRateBurst,
	}, logger), nil
}
