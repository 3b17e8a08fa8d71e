package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"bank-chat-client/internal/backend"
	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/config"
	"bank-chat-client/internal/logging"
	"bank-chat-client/internal/server"
	"bank-chat-client/internal/session"
	"bank-chat-client/internal/store"
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

	b, err := backend.FromConfig(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create backend", zap.Error(err))
	}
	normalizer := chat.NewNormalizer(
		chat.WithAliases(cfg.TextAliases...),
		chat.WithPlaceholder(cfg.Placeholder),
		chat.WithForbiddenStatus(cfg.ForbiddenCode),
	)
	sess := session.New(b, normalizer, store.NewTranscript(), logger)

	s, err := server.NewServer(cfg, sess, logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}
	addr := ":" + cfg.Port
	logger.Info("gateway listening",
		zap.String("addr", addr),
		zap.String("backend", cfg.Backend),
		zap.String("endpoint", cfg.ChatAPIURL),
	)
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
