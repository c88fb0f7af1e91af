package dashboard

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Maximum control event size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

// wsMessage is what the server pushes after every event.
type wsMessage struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
	View  *View  `json:"view,omitempty"`
}

// handleWebsocket runs the control loop for one page: read an event, apply it,
// re-render, write the view. Events are handled one at a time in arrival order.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	controls, err := ControlsFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("[ws] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	s.logger.Debug("[ws] Client connected: %s", conn.RemoteAddr())

	if err := s.pushView(conn, controls); err != nil {
		s.logger.Warn("[ws] Initial write failed: %v", err)
		return
	}

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("[ws] Read failed: %v", err)
			}
			s.logger.Debug("[ws] Client disconnected: %s", conn.RemoteAddr())
			return
		}

		next := controls
		if err := next.Apply(ev); err != nil {
			if werr := writeJSON(conn, wsMessage{Type: "error", Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		controls = next

		if err := s.pushView(conn, controls); err != nil {
			s.logger.Warn("[ws] Write failed: %v", err)
			return
		}
	}
}

func (s *Server) pushView(conn *websocket.Conn, c Controls) error {
	view, err := s.renderer.Render(c)
	if err != nil {
		s.logger.Error("[ws] Render failed: %v", err)
		return writeJSON(conn, wsMessage{Type: "error", Error: "failed to render dashboard"})
	}
	return writeJSON(conn, wsMessage{Type: "view", View: view})
}

func writeJSON(conn *websocket.Conn, msg wsMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
