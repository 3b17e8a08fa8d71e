// Package stub is a delay-based stand-in for the banking chat backend. It
// answers from fixtures, an optional language model, or a canned list.
package stub

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bank-chat-client/internal/types"
)

type Request struct {
	Text       string
	Username   string
	CustomerID string
}

type Response struct {
	Status int
	Body   []byte
}

// Responder produces a reply for a request. A nil response with a nil error
// means the responder has nothing to say and the next one should be asked.
type Responder interface {
	Respond(ctx context.Context, req Request) (*Response, error)
}

// Chain asks each responder in turn and returns the first reply. Responder
// errors are logged and skipped.
type Chain struct {
	responders []Responder
	logger     *zap.Logger
}

func NewChain(logger *zap.Logger, responders ...Responder) *Chain {
	return &Chain{responders: responders, logger: logger}
}

func (c *Chain) Respond(ctx context.Context, req Request) (*Response, error) {
	for _, r := range c.responders {
		resp, err := r.Respond(ctx, req)
		if err != nil {
			c.logger.Warn("responder failed", zap.Error(err))
			continue
		}
		if resp != nil {
			return resp, nil
		}
	}
	return nil, nil
}

type Options struct {
	MinDelay      time.Duration
	MaxDelay      time.Duration
	RatePerSecond float64 // <= 0 disables limiting
	RateBurst     int
}

// Service wraps a responder with the simulated network delay and a
// per-customer rate limit.
type Service struct {
	responder Responder
	opts      Options
	logger    *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	delay func(min, max time.Duration) time.Duration
}

func NewService(responder Responder, opts Options, logger *zap.Logger) *Service {
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	return &Service{
		responder: responder,
		opts:      opts,
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
		delay:     randomDelay,
	}
}

// Handle answers one chat request. It only returns an error when ctx ends
// during the simulated delay.
func (s *Service) Handle(ctx context.Context, req Request) (Response, error) {
	if !s.allow(req.CustomerID) {
		s.logger.Info("rate limited", zap.String("customer_id", req.CustomerID))
		return legacy(http.StatusTooManyRequests, types.LegacyReply{Message: "Too many requests"}), nil
	}

	if err := sleep(ctx, s.delay(s.opts.MinDelay, s.opts.MaxDelay)); err != nil {
		return Response{}, err
	}

	resp, err := s.responder.Respond(ctx, req)
	if err != nil || resp == nil {
		if err != nil {
			s.logger.Error("no reply", zap.Error(err))
		}
		return legacy(http.StatusInternalServerError, types.LegacyReply{Message: "No responder available"}), nil
	}
	return *resp, nil
}

func (s *Service) allow(customerID string) bool {
	if s.opts.RatePerSecond <= 0 {
		return true
	}
	key := customerID
	if key == "" {
		key = "anonymous"
	}
	s.mu.Lock()
	limiter, ok := s.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.opts.RatePerSecond), s.opts.RateBurst)
		s.limiters[key] = limiter
	}
	s.mu.Unlock()
	return limiter.Allow()
}

func randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func legacy(status int, reply types.LegacyReply) Response {
	b, _ := json.Marshal(reply)
	return Response{Status: status, Body: b}
}
