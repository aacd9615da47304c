package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"near2door-tracker/internal/logx"
	"near2door-tracker/internal/tracking"
)

type wsConfig struct {
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	pongWait     time.Duration
	writeWait    time.Duration
}

func defaultWSConfig() wsConfig {
	return wsConfig{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		pingInterval: 30 * time.Second,
		pongWait:     60 * time.Second,
		writeWait:    10 * time.Second,
	}
}

const eventSnapshot = "snapshot"

// Stream handles GET /tracking/{orderID}/ws. The first message is the
// current snapshot, then every session event follows until the session stops.
func (h *TrackingHandler) Stream(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	st, scene, err := h.svc.Snapshot(r.Context(), who.UserID, orderID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	events, cancel, err := h.svc.Subscribe(who.UserID, orderID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	defer cancel()

	conn, err := h.ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logx.String("order_id", orderID), logx.Err(err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(logx.String("order_id", orderID), logx.String("user_id", who.UserID))
	logger.Info("tracking stream opened")

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	first := trackingEventResponse{
		Type:   eventSnapshot,
		Status: statusToResponse(st),
		Scene:  sceneToResponse(scene),
		At:     time.Now(),
	}
	if err := h.write(conn, first); err != nil {
		logger.Debug("tracking stream write failed", logx.Err(err))
		return
	}

	ping := time.NewTicker(h.ws.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			logger.Info("tracking stream closed by client")
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.ws.writeWait)); err != nil {
				logger.Debug("tracking stream ping failed", logx.Err(err))
				return
			}
		case ev, ok := <-events:
			if !ok {
				h.closeNormal(conn, "tracking ended")
				logger.Info("tracking stream ended")
				return
			}
			if err := h.write(conn, eventToResponse(ev)); err != nil {
				logger.Debug("tracking stream write failed", logx.Err(err))
				return
			}
			if ev.Type == tracking.EventStopped {
				h.closeNormal(conn, ev.Status.StopReason)
				logger.Info("tracking stream ended", logx.String("reason", ev.Status.StopReason))
				return
			}
		}
	}
}

// readLoop drains client frames so control messages are processed.
func (h *TrackingHandler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(h.ws.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.ws.pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *TrackingHandler) write(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(h.ws.writeWait))
	return conn.WriteJSON(v)
}

func (h *TrackingHandler) closeNormal(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.ws.writeWait))
}
