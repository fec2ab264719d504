package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/realtime"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/version"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// initMessage is the first frame of every notifications socket.
type initMessage struct {
	Type        string `json:"type"`
	WebsiteName string `json:"websiteName,omitempty"`
	Version     string `json:"version"`
}

// HandleNotifications upgrades to a websocket that streams save events.
// ?websiteName restricts the stream to one website.
func (s *Server) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("websiteName")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)
	s.logger.Debugf("notifications listener %d connected (filter %q)", id, filter)

	if err := s.writeFrame(conn, initMessage{Type: "init", WebsiteName: filter, Version: version.APIVersion()}); err != nil {
		return
	}

	// The reader only handles control frames and notices the close.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			s.logger.Debugf("notifications listener %d disconnected", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !matches(ev, filter) {
				continue
			}
			if err := s.writeFrame(conn, ev); err != nil {
				s.logger.Debugf("notifications listener %d write failed: %v", id, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func matches(ev realtime.Event, websiteName string) bool {
	return websiteName == "" || ev.Save.WebsiteName == websiteName
}
