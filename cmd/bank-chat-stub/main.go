package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"bank-chat-client/internal/config"
	"bank-chat-client/internal/logging"
	"bank-chat-client/internal/stub"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	svc, err := stub.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create stub service", zap.Error(err))
	}
	addr := ":" + cfg.StubPort
	logger.Info("stub backend listening",
		zap.String("addr", addr),
		zap.Duration("min_delay", cfg.StubMinDelay),
		zap.Duration("max_delay", cfg.StubMaxDelay),
		zap.Bool("openai", cfg.OpenAIAPIKey != ""),
	)
	if err := http.ListenAndServe(addr, stub.NewHandler(svc, logger)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
