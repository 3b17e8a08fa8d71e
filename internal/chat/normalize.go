package chat

import (
	"net/http"
	"time"
)

// DefaultPlaceholder is shown when a reply carries no usable text.
const DefaultPlaceholder = "No response from server"

// TextAccessor extracts display text from a reply object.
type TextAccessor func(Object) (string, bool)

// FieldText returns an accessor for a top-level field. Empty strings, zero
// numbers, false and null do not count as present.
func FieldText(key string) TextAccessor {
	return func(o Object) (string, bool) {
		v, ok := o.Get(key)
		if !ok || !truthy(v) {
			return "", false
		}
		switch v.(type) {
		case Object, []any:
			return "", false
		}
		return Stringify(v)
	}
}

// Normalizer turns backend replies of any historical shape into a Message.
type Normalizer struct {
	text        []TextAccessor
	placeholder string
	forbidden   int
	now         func() time.Time
}

type Option func(*Normalizer)

// WithAliases replaces the text alias list; earlier keys win.
func WithAliases(keys ...string) Option {
	return func(n *Normalizer) {
		n.text = n.text[:0]
		for _, k := range keys {
			n.text = append(n.text, FieldText(k))
		}
	}
}

// WithAccessor appends a custom accessor after the configured aliases.
func WithAccessor(a TextAccessor) Option {
	return func(n *Normalizer) { n.text = append(n.text, a) }
}

func WithPlaceholder(s string) Option {
	return func(n *Normalizer) {
		if s != "" {
			n.placeholder = s
		}
	}
}

// WithForbiddenStatus sets the status that is exempt from failure handling.
func WithForbiddenStatus(code int) Option {
	return func(n *Normalizer) { n.forbidden = code }
}

func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		placeholder: DefaultPlaceholder,
		forbidden:   http.StatusForbidden,
		now:         time.Now,
	}
	WithAliases("answer", "introduction", "message", "messageText", "text")(n)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Outcome is the result of normalizing one reply.
type Outcome struct {
	Message Message
	// Failed is true when the caller must report a delivery failure after
	// recording Message.
	Failed bool
}

// NormalizeBody decodes a raw reply body and normalizes it.
func (n *Normalizer) NormalizeBody(body []byte, requestFailed bool, status int) (Outcome, error) {
	raw, err := Decode(body)
	if err != nil {
		return Outcome{}, err
	}
	return n.Normalize(raw, requestFailed, status)
}

// Normalize builds a bot Message from a decoded reply. It only fails when the
// reply is not an object.
func (n *Normalizer) Normalize(raw any, requestFailed bool, status int) (Outcome, error) {
	obj, ok := raw.(Object)
	if !ok {
		return Outcome{}, ErrNotObject
	}

	msg := Message{
		Sender:    SenderBot,
		Timestamp: n.now(),
		Text:      n.resolveText(obj),
		Tables:    resolveTables(obj),
	}
	if v, ok := obj.Get("explanation"); ok && truthy(v) {
		msg.Explanation, _ = Stringify(v)
	}
	if v, ok := obj.Get("correlationId"); ok && truthy(v) {
		msg.CorrelationID, _ = Stringify(v)
	}
	if v, ok := obj.Get("dataSource"); ok {
		msg.DataSource = parseDataSource(v)
	}

	return Outcome{
		Message: msg,
		Failed:  requestFailed && status != n.forbidden,
	}, nil
}

func (n *Normalizer) resolveText(obj Object) string {
	for _, get := range n.text {
		if s, ok := get(obj); ok {
			return s
		}
	}
	return n.placeholder
}

// resolveTables accepts the "tables" sequence or the legacy single "table".
func resolveTables(obj Object) []TableData {
	if v, ok := obj.Get("tables"); ok {
		if list, ok := v.([]any); ok {
			out := make([]TableData, 0, len(list))
			for _, it := range list {
				out = append(out, ParseTable(it))
			}
			return out
		}
	}
	if v, ok := obj.Get("table"); ok {
		if _, ok := v.(Object); ok {
			return []TableData{ParseTable(v)}
		}
	}
	return nil
}

func parseDataSource(v any) *DataSource {
	obj, ok := v.(Object)
	if !ok {
		return nil
	}
	ds := &DataSource{}
	if s, ok := obj.Get("description"); ok && truthy(s) {
		ds.Description, _ = Stringify(s)
	}
	if s, ok := obj.Get("api"); ok && truthy(s) {
		ds.API, _ = Stringify(s)
	}
	if s, ok := obj.Get("timeRange"); ok && truthy(s) {
		ds.TimeRange, _ = Stringify(s)
	}
	if ds.Empty() {
		return nil
	}
	return ds
}
