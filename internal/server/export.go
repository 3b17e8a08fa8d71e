package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bank-chat-client/internal/export"
	"bank-chat-client/internal/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport returns the rendered tables of one message as a workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}
	msg, ok := s.session.Message(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "message not found")
		return
	}
	grids := render.RenderAll(msg.Tables)
	if len(grids) == 0 {
		s.writeError(w, http.StatusNotFound, "message has no tables")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, grids); err != nil {
		s.logger.Error("export failed", zap.Int64("message_id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("message-%d.xlsx", id)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
