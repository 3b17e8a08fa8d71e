package types

// ChatRequest is the outbound body sent to a chat backend.
type ChatRequest struct {
	MessageText string `json:"messageText"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// LegacyReply is the text-only reply shape produced by the stub backend.
type LegacyReply struct {
	Message    string `json:"message"`
	Username   string `json:"username,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	CustomerID string `json:"customerId"`
}

type SessionResponse struct {
	Username   string `json:"username"`
	CustomerID string `json:"customerId,omitempty"`
}

// SendRequest is the gateway body for posting a chat message.
type SendRequest struct {
	MessageText string `json:"messageText"`
}

type TranscriptResponse struct {
	Messages []MessageView `json:"messages"`
	Awaiting bool          `json:"awaiting"`
	Endpoint string        `json:"endpoint"`
}

type MessagesResponse struct {
	Messages []MessageView `json:"messages"`
}

// MessageView is a transcript entry as the web view consumes it. Tables are
// already laid out; malformed tables are absent.
type MessageView struct {
	ID            int64           `json:"id"`
	Sender        string          `json:"sender"`
	Timestamp     string          `json:"timestamp"`
	Time          string          `json:"time"`
	Text          string          `json:"text,omitempty"`
	Tables        []GridView      `json:"tables,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
	CorrelationID string          `json:"correlationId,omitempty"`
	DataSource    *DataSourceView `json:"dataSource,omitempty"`
	IsError       bool            `json:"isError"`
}

type DataSourceView struct {
	Description string `json:"description,omitempty"`
	API         string `json:"api,omitempty"`
	TimeRange   string `json:"timeRange,omitempty"`
}

type GridView struct {
	AccountName string     `json:"accountName,omitempty"`
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows"`
	Totals      []string   `json:"totals,omitempty"`
	Footer      string     `json:"footer,omitempty"`
}
