package server

import (
	"time"

	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/render"
	"bank-chat-client/internal/types"
)

func toMessageViews(msgs []chat.Message) []types.MessageView {
	out := make([]types.MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageView(m))
	}
	return out
}

func toMessageView(m chat.Message) types.MessageView {
	v := types.MessageView{
		ID:            m.ID,
		Sender:        string(m.Sender),
		Timestamp:     m.Timestamp.Format(time.RFC3339),
		Time:          m.DisplayTime(),
		Text:          m.Text,
		Explanation:   m.Explanation,
		CorrelationID: m.CorrelationID,
		IsError:       m.IsError,
	}
	if !m.DataSource.Empty() {
		v.DataSource = &types.DataSourceView{
			Description: m.DataSource.Description,
			API:         m.DataSource.API,
			TimeRange:   m.DataSource.TimeRange,
		}
	}
	for _, g := range render.RenderAll(m.Tables) {
		v.Tables = append(v.Tables, types.GridView{
			AccountName: g.AccountName,
			Headers:     g.Headers,
			Rows:        g.Rows,
			Totals:      g.Totals,
			Footer:      g.Footer,
		})
	}
	return v
}
