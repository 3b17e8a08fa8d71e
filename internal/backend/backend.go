// Package backend carries chat messages to whatever answers them.
package backend

import "context"

// SessionContext is the per-session identity attached to every request.
type SessionContext struct {
	Username   string
	CustomerID string
}

// Reply is a backend answer before normalization. A non-2xx status is not an
// error at this layer.
type Reply struct {
	Status int
	Body   []byte
}

func (r Reply) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Backend sends one message and waits for its reply. An error means the
// round trip itself failed.
type Backend interface {
	SendMessage(ctx context.Context, text string, sc SessionContext) (*Reply, error)
}
