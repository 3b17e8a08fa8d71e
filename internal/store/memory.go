package store

import (
	"sync"

	"bank-chat-client/internal/chat"
)

// Transcript is the ordered, append-only list of chat messages for the
// logged-in user. Messages are never edited once appended.
type Transcript struct {
	mu       sync.RWMutex
	messages []chat.Message
	nextID   int64
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append stores msg, assigning the next id, and returns the stored copy.
func (t *Transcript) Append(msg chat.Message) chat.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	msg.ID = t.nextID
	t.messages = append(t.messages, msg)
	return msg
}

// List returns a copy of every message in insertion order.
func (t *Transcript) List() []chat.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]chat.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Get returns the message with the given id.
func (t *Transcript) Get(id int64) (chat.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, m := range t.messages {
		if m.ID == id {
			return m, true
		}
	}
	return chat.Message{}, false
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Clear drops every message. Ids keep increasing across clears.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}
