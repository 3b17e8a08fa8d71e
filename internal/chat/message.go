package chat

import (
	"errors"
	"time"
)

var (
	// ErrInvalidJSON is returned when a reply body is not JSON at all.
	ErrInvalidJSON = errors.New("response body is not valid JSON")
	// ErrNotObject is returned when a reply body is JSON but not an object.
	ErrNotObject = errors.New("response body is not a JSON object")
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is the canonical chat turn shown in the transcript.
type Message struct {
	ID            int64
	Sender        Sender
	Timestamp     time.Time
	Text          string
	Tables        []TableData
	Explanation   string
	CorrelationID string
	DataSource    *DataSource
	IsError       bool
}

// DataSource describes where the data in a bot reply came from.
type DataSource struct {
	Description string
	API         string
	TimeRange   string
}

// Empty reports whether none of the data source fields are set.
func (d *DataSource) Empty() bool {
	return d == nil || (d.Description == "" && d.API == "" && d.TimeRange == "")
}

// HasTables reports whether the message carries at least one table.
func (m Message) HasTables() bool {
	return len(m.Tables) > 0
}

// DisplayTime formats the creation time for the chat bubble.
func (m Message) DisplayTime() string {
	return m.Timestamp.Format("3:04:05 PM")
}
