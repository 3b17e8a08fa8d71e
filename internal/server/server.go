package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/config"
	"bank-chat-client/internal/session"
	"bank-chat-client/internal/types"
)

// Server exposes one chat session to a web view.
type Server struct {
	router  *chi.Mux
	cfg     config.Config
	session *session.Session
	logger  *zap.Logger

	mu  sync.Mutex
	sid string // id of the browser session bound at login
}

func NewServer(cfg config.Config, sess *session.Session, logger *zap.Logger) (*Server, error) {
	if sess == nil {
		return nil, errors.New("server: session is required")
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:  r,
		cfg:     cfg,
		session: sess,
		logger:  logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/session", s.handleLogin)
	s.router.Delete("/api/session", s.handleLogout)
	s.router.Get("/api/transcript", s.handleTranscript)
	s.router.Post("/api/messages", s.handleSend)
	s.router.Get("/api/messages/{id}/export", s.handleExport)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		req.CustomerID = s.cfg.CustomerID
	}

	// a new login replaces whatever session was active
	s.session.Logout()
	if err := s.session.Login(req.Username, req.Password, req.CustomerID); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sid := uuid.NewString()
	s.mu.Lock()
	s.sid = sid
	s.mu.Unlock()

	SetSessionCookie(w, sid)
	w.Header().Set("X-Session-Id", sid)
	u, _ := s.session.User()
	writeJSON(w, http.StatusCreated, types.SessionResponse{Username: u.Username, CustomerID: u.CustomerID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	s.session.Logout()
	s.mu.Lock()
	s.sid = ""
	s.mu.Unlock()
	ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	writeJSON(w, http.StatusOK, types.TranscriptResponse{
		Messages: toMessageViews(s.session.Messages()),
		Awaiting: s.session.Awaiting(),
		Endpoint: s.cfg.ChatAPIURL,
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	var req types.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	turn, err := s.session.Begin(req.MessageText)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		s.writeError(w, http.StatusBadRequest, "messageText is required")
		return
	case errors.Is(err, session.ErrBusy):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, session.ErrNotLoggedIn):
		s.writeError(w, http.StatusUnauthorized, "not logged in")
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	appended := append([]chat.Message{turn.Prompt}, turn.Complete(r.Context())...)
	writeJSON(w, http.StatusOK, types.MessagesResponse{Messages: toMessageViews(appended)})
}

func (s *Server) authorized(r *http.Request) bool {
	sid := GetSessionCookie(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sid != "" && sid == s.sid
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
