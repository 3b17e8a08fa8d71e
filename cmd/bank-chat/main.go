package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"bank-chat-client/internal/backend"
	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/config"
	"bank-chat-client/internal/logging"
	"bank-chat-client/internal/session"
	"bank-chat-client/internal/store"
	"bank-chat-client/internal/tui"
)

func main() {
	cfg := config.Load()
	// the terminal owns stdout and stderr while the client runs
	if cfg.LogFile == "" {
		cfg.LogFile = "bank-chat.log"
	}
	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	b, err := backend.FromConfig(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create backend: %v\n", err)
		os.Exit(1)
	}
	normalizer := chat.NewNormalizer(
		chat.WithAliases(cfg.TextAliases...),
		chat.WithPlaceholder(cfg.Placeholder),
		chat.WithForbiddenStatus(cfg.ForbiddenCode),
	)
	sess := session.New(b, normalizer, store.NewTranscript(), logger)

	err = tui.Run(tui.Options{
		Session:      sess,
		Endpoint:     cfg.ChatAPIURL,
		CustomerID:   cfg.CustomerID,
		ExportDir:    cfg.ExportDir,
		GlamourStyle: cfg.GlamourStyle,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("client exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "bank-chat: %v\n", err)
		os.Exit(1)
	}
}
