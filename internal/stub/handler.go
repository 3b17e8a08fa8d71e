package stub

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bank-chat-client/internal/types"
)

type handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler exposes the service over HTTP.
func NewHandler(svc *Service, logger *zap.Logger) http.Handler {
	h := &handler{svc: svc, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
	})
	r.Post("/api/v1/chat", h.chat)
	return r
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var body types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, types.LegacyReply{Message: "invalid request body"})
		return
	}
	req := Request{
		Text:       body.MessageText,
		Username:   r.Header.Get("X-Username"),
		CustomerID: r.Header.Get("X-Customer-ID"),
	}
	resp, err := h.svc.Handle(r.Context(), req)
	if err != nil {
		// client went away during the delay
		h.logger.Debug("request abandoned", zap.Error(err))
		return
	}
	h.logger.Info("chat reply",
		zap.String("customer_id", req.CustomerID),
		zap.String("correlation_id", r.Header.Get("X-Correlation-ID")),
		zap.Int("status", resp.Status),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
