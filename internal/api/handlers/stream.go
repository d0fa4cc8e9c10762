package handlers

import (
	"log"
	"net/http"
	"time"

	"bifacial-sweep/internal/api/models"
	"bifacial-sweep/internal/sweep"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const streamWriteWait = 10 * time.Second

// StreamSweep handles GET /api/v1/sweep/stream.
// The client sends one SweepRequest as JSON; the server answers with one
// progress message per tilt, then a summary or an error message, and closes.
func (h *SweepHandler) StreamSweep(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[SweepStream] WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	req := models.NewSweepRequest()
	if err := conn.ReadJSON(&req); err != nil {
		h.send(conn, errorMessage("INVALID_REQUEST", err.Error()))
		return
	}

	cfg, sreq, err := h.prepare(req)
	if err != nil {
		h.send(conn, errorMessage("INVALID_CONFIG", err.Error()))
		return
	}

	// Progress calls are serialized by the engine, so this is the only writer
	// until Run returns.
	sreq.Progress = func(p sweep.Progress) {
		h.send(conn, models.StreamMessage{Type: models.StreamProgress, Progress: &p})
	}

	res, err := h.engine.Run(c.Request.Context(), sreq)
	if err != nil {
		_, detail := sweepErrorDetail(err)
		h.send(conn, models.StreamMessage{Type: models.StreamError, Error: &detail})
		return
	}

	resp, err := h.finish(c.Request.Context(), req, cfg, res)
	if err != nil {
		h.send(conn, errorMessage("STORE_ERROR", err.Error()))
		return
	}
	h.send(conn, models.StreamMessage{Type: models.StreamSummary, Result: resp})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(streamWriteWait))
}

func (h *SweepHandler) send(conn *websocket.Conn, msg models.StreamMessage) {
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[SweepStream] write error: %v", err)
	}
}

func errorMessage(code, message string) models.StreamMessage {
	return models.StreamMessage{
		Type:  models.StreamError,
		Error: &models.ErrorDetail{Code: code, Message: message},
	}
}
