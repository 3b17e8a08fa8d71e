package backend

import (
	"context"

	"bank-chat-client/internal/stub"
)

// Local answers from an in-process stub service, with no network involved.
type Local struct {
	svc *stub.Service
}

func NewLocal(svc *stub.Service) *Local {
	return &Local{svc: svc}
}

func (l *Local) SendMessage(ctx context.Context, text string, sc SessionContext) (*Reply, error) {
	resp, err := l.svc.Handle(ctx, stub.Request{
		Text:       text,
		Username:   sc.Username,
		CustomerID: sc.CustomerID,
	})
	if err != nil {
		return nil, err
	}
	return &Reply{Status: resp.Status, Body: resp.Body}, nil
}
