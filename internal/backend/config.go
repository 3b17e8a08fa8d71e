package backend

import (
	"fmt"

	"go.uber.org/zap"

	"bank-chat-client/internal/config"
	"bank-chat-client/internal/stub"
)

// FromConfig selects the transport named by CHAT_BACKEND. Anything other
// than "stub" posts to CHAT_API_URL.
func FromConfig(cfg config.Config, logger *zap.Logger) (Backend, error) {
	if cfg.Backend == "stub" {
		svc, err := stub.NewFromConfig(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("stub backend: %w", err)
		}
		return NewLocal(svc), nil
	}
	return NewHTTPClient(cfg.ChatAPIURL, cfg.HTTPTimeout, logger), nil
}
