package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

const writeWait = time.Second

// SceneHandler pushes scene snapshots to websocket clients.
type SceneHandler struct {
	scene    SceneSource
	interval time.Duration
	log      *zap.Logger
}

// NewSceneHandler creates a SceneHandler that sends a snapshot every
// interval when the scene has advanced.
func NewSceneHandler(scene SceneSource, interval time.Duration, log *zap.Logger) *SceneHandler {
	return &SceneHandler{scene: scene, interval: interval, log: log}
}

// ServeHTTP upgrades the request and streams snapshots until the client
// goes away.
func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// The reader notices the close frame; clients never send anything else.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	sent := false
	var lastFrame uint64
	for {
		snap := h.scene.Snapshot()
		if !sent || snap.Frame != lastFrame {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
			sent = true
			lastFrame = snap.Frame
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
