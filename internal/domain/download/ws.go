package download

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer on the REST surface; the gate
	// token itself is the capability here
	CheckOrigin: func(r *http.Request) bool { return true },
}

type tickMessage struct {
	State     State `json:"state"`
	Remaining int   `json:"remaining"`
}

// Countdown handles GET /downloads/{token}/ws. It pushes one tick per second
// until the gate opens or the client goes away.
func (h *Handler) Countdown(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	status, err := h.service.Status(r.Context(), token)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error upgrading countdown socket")
		return
	}
	defer conn.Close()

	// Drain reads so close frames from the client are noticed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		if err := conn.WriteJSON(tickMessage{State: status.State, Remaining: status.Remaining}); err != nil {
			return
		}
		if status.State == StateReady {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "ready"))
			return
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		status, err = h.service.Status(r.Context(), token)
		if err != nil {
			// Session cancelled or expired mid-countdown
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
			return
		}
	}
}
