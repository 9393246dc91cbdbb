package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/tannenbaum/internal/scene"
	"github.com/ayusman/tannenbaum/internal/session"
)

// BroadcastInterval paces the scene feed at roughly half the animation
// rate; the browser interpolates nothing, it just draws the latest
// buffers, so 30 Hz is plenty over a local socket.
const BroadcastInterval = 33 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local connections only
	},
}

// SceneHandler streams render buffers to connected viewers: one binary
// init frame on connect, then update frames whenever the scene has
// advanced, plus JSON state envelopes when the gesture or status changes.
type SceneHandler struct {
	session *session.Session
	clients map[*websocket.Conn]string
	mu      sync.RWMutex
	enc     Encoder
}

// NewSceneHandler creates a SceneHandler feeding from the given session
// and starts its broadcast loop.
func NewSceneHandler(s *session.Session) *SceneHandler {
	h := &SceneHandler{
		session: s,
		clients: make(map[*websocket.Conn]string),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()

	// The static buffers go out once, before the client joins the
	// update fan-out. A local encoder keeps the handshake write off the
	// broadcast lock; a slow client only stalls itself.
	var enc Encoder
	var init []byte
	h.session.Scene().Snapshot(func(v scene.View) {
		init = enc.EncodeInit(v)
	})
	if err := conn.WriteMessage(websocket.BinaryMessage, init); err != nil {
		log.Printf("client %s: init frame write failed: %v", id, err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = id
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection alive by draining messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// NotifyState pushes a state envelope to every connected viewer. The
// exclusive lock serializes it against the broadcast loop and against
// concurrent callers; a connection must never see two writers at once.
func (h *SceneHandler) NotifyState() {
	payload, _ := json.Marshal(StatePayload{
		Status:      h.session.Status(),
		Gesture:     h.session.GestureLabel(),
		DragEnabled: h.session.Scene().DragEnabled(),
	})
	msg, _ := json.Marshal(Envelope{T: MsgState, P: payload})

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// broadcast ships an update frame to all clients each tick the scene has
// advanced. One encoder buffer serves every client.
func (h *SceneHandler) broadcast() {
	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		h.mu.Lock()
		var frame []byte
		changed := h.session.Scene().Snapshot(func(v scene.View) {
			frame = h.enc.EncodeUpdate(v)
		})
		if changed {
			for conn, id := range h.clients {
				if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
					log.Printf("client %s: dropping after write error: %v", id, err)
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
		h.mu.Unlock()
	}
}
