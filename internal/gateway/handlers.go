package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"shiftbook/internal/models"
	"shiftbook/internal/shiftapi"
	"shiftbook/internal/store"
)

// commandResponse is returned by every command endpoint.
type commandResponse struct {
	OK    bool           `json:"ok"`
	Error string         `json:"error,omitempty"`
	State store.Snapshot `json:"state"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.opts.Redis != nil {
		ctxPing, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.opts.Redis.Ping(ctxPing).Err(); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleMyShifts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, store.MyShifts(s.store.Snapshot(), s.now()))
}

// handleAvailable serves the available view for the selected area, or for
// the ?area= override without changing the store filter.
func (s *Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if raw := r.URL.Query().Get("area"); raw != "" {
		area, err := models.ParseArea(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		snap.SelectedArea = area
	}
	writeJSON(w, http.StatusOK, store.Available(snap, s.now()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.writeCommandResult(w, s.store.Refresh(r.Context()))
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	s.writeCommandResult(w, s.store.Book(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.writeCommandResult(w, s.store.Cancel(r.Context(), mux.Vars(r)["id"]))
}

// writeCommandResult reports the outcome of one command. The failure comes
// from the command itself, not the shared error slot.
func (s *Server) writeCommandResult(w http.ResponseWriter, err error) {
	snap := s.store.Snapshot()
	if err == nil {
		writeJSON(w, http.StatusOK, commandResponse{OK: true, State: snap})
		return
	}
	if errors.Is(err, store.ErrMutationInFlight) {
		writeJSON(w, http.StatusConflict, commandResponse{Error: err.Error(), State: snap})
		return
	}
	apiErr := shiftapi.AsAPIError(err)
	writeJSON(w, statusForCode(apiErr.Code), commandResponse{Error: apiErr.Message, State: snap})
}

// statusForCode maps a remote failure code to the gateway response status.
func statusForCode(code string) int {
	switch code {
	case shiftapi.CodeValidation:
		return http.StatusConflict
	case shiftapi.CodeNotFound:
		return http.StatusNotFound
	case shiftapi.CodeNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.store.SetActiveTab(models.TabType(req.Tab)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSetArea(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Area string `json:"area"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.store.SetSelectedArea(models.Area(req.Area)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleClearError(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearError()
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}
