package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shiftbook/internal/store"
)

// handleEvents streams a snapshot on every state change as server-sent
// events. Slow readers only ever see the latest snapshot.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	latest := make(chan store.Snapshot, 1)
	unsubscribe := s.store.Subscribe(func(snap store.Snapshot) {
		select {
		case <-latest:
		default:
		}
		latest <- snap
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, s.store.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-latest:
			if err := writeEvent(w, snap); err != nil {
				s.log.Debug().Err(err).Msg("event stream closed")
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, snap store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: state\ndata: %s\n\n", snap.Version, data)
	return err
}
