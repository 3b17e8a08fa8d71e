package stub

import (
	"context"
	"math/rand"
	"net/http"

	"bank-chat-client/internal/types"
)

// DefaultResponses is the built-in canned reply list.
var DefaultResponses = []string{
	"Thank you for your message. I'm here to help you with your banking needs.",
	"I understand your question. Let me provide you with the information you need.",
	"That's a great question! Based on your inquiry, here's what I can tell you.",
	"I appreciate you reaching out. Here's the information regarding your request.",
	"Thank you for contacting us. I'd be happy to assist you with that.",
	"I've received your message and I'm processing your request. Here's my response.",
	"Thanks for getting in touch! I can help you with that banking question.",
	"I understand what you're asking about. Let me provide you with a helpful response.",
	"Thank you for your inquiry. I'm here to assist you with your banking needs.",
	"I've reviewed your message and I'm ready to help. Here's what I can tell you.",
}

// Canned answers every request with a random sentence in the legacy
// text-only shape.
type Canned struct {
	responses []string
	pick      func(n int) int
}

func NewCanned(responses []string) *Canned {
	if len(responses) == 0 {
		responses = DefaultResponses
	}
	return &Canned{responses: responses, pick: rand.Intn}
}

func (c *Canned) Respond(_ context.Context, req Request) (*Response, error) {
	resp := legacy(http.StatusOK, types.LegacyReply{
		Message:    c.responses[c.pick(len(c.responses))],
		Username:   req.Username,
		CustomerID: req.CustomerID,
	})
	return &resp, nil
}
