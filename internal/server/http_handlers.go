package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nico916/football-comparator/pkg/engine"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// registerHTTPHandlers sets up the API routes.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players", s.handleListPlayers)
	mux.HandleFunc("GET /api/players/{name...}", s.handleGetPlayer)
	mux.HandleFunc("GET /api/projection", s.handleProjection)
	mux.HandleFunc("GET /api/variance", s.handleVariance)
	mux.HandleFunc("GET /api/loadings", s.handleLoadings)
	mux.HandleFunc("GET /api/neighbors", s.handleNeighborsQuery)
	mux.HandleFunc("POST /api/neighbors", s.handleNeighborsBody)
	mux.HandleFunc("POST /api/place", s.handlePlace)
	mux.HandleFunc("GET /api/schema/{name}", s.handleSchema)

	mux.HandleFunc("POST /system/reload", s.handleReload)
	mux.HandleFunc("GET /system/tasks/{id}", s.handleGetTask)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.Engine.Snapshot() == nil {
		status = "loading"
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": status})
}

// snapshot writes a 503 and returns nil when no dataset is loaded yet.
func (s *Server) snapshot(w http.ResponseWriter) *engine.Snapshot {
	snap := s.Engine.Snapshot()
	if snap == nil {
		s.writeHTTPError(w, http.StatusServiceUnavailable, "no dataset loaded")
	}
	return snap
}

// --- Dataset views ---

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	names := snap.Names()
	s.writeHTTPResponse(w, http.StatusOK, PlayersResponse{Players: names, Count: len(names)})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	name := r.PathValue("name")
	entries := snap.Lookup(name)
	if len(entries) == 0 {
		s.writeHTTPError(w, http.StatusNotFound, fmt.Sprintf("player '%s' not found", name))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, PlayerResponse{Player: name, Entries: entries})
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, ProjectionResponse{
		Key:        snap.Key,
		FittedAt:   snap.FittedAt,
		Attributes: snap.Attributes,
		Players:    snap.Players,
		Extent:     snap.Extent,
	})
}

func (s *Server) handleVariance(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, VarianceResponse{Components: snap.Variance})
}

func (s *Server) handleLoadings(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, LoadingsResponse{Loadings: snap.Loadings})
}

// --- Neighbor queries ---

func (s *Server) handleNeighborsQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := NeighborsRequest{Player: query.Get("player")}
	if raw := query.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil || k < 0 {
			s.writeHTTPError(w, http.StatusBadRequest, "k must be a non-negative integer")
			return
		}
		req.K = k
	}
	s.answerNeighbors(w, req)
}

func (s *Server) handleNeighborsBody(w http.ResponseWriter, r *http.Request) {
	var req NeighborsRequest
	if !s.decodeValidated(w, r, "neighbors", &req) {
		return
	}
	if req.K < 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "k must be a non-negative integer")
		return
	}
	s.answerNeighbors(w, req)
}

func (s *Server) answerNeighbors(w http.ResponseWriter, req NeighborsRequest) {
	if req.Player == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "player is required")
		return
	}
	report, err := s.Engine.Neighbors(req.Player, req.K)
	if errors.Is(err, engine.ErrNotLoaded) {
		s.writeHTTPError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	if err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	if !report.Found {
		status = http.StatusNotFound
	}
	s.writeHTTPResponse(w, status, report)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	var req PlaceRequest
	if !s.decodeValidated(w, r, "place", &req) {
		return
	}

	placed, err := snap.PlaceNamed(req.Attributes)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, PlaceResponse{PC1: placed.PC1, PC2: placed.PC2, Archetype: placed.Archetype})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	resolved, ok := s.schemas[r.PathValue("name")]
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "unknown schema")
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, resolved.Schema())
}

// decodeValidated reads a JSON body, validates it against the named schema
// and decodes it into dst. It writes a 400 and returns false on failure.
func (s *Server) decodeValidated(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "could not read request body")
		return false
	}
	var instance any
	if err := json.Unmarshal(body, &instance); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := s.schemas[schema].Validate(instance); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// --- System ---

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	task := s.taskManager.Go("reload", func(t *Task) (string, error) {
		t.SetProgress("fitting dataset")
		snap, err := s.Engine.Reload()
		if err != nil {
			slog.Error("Reload task failed", "task", t.ID(), "error", err)
			return "", err
		}
		return snap.Key, nil
	})
	s.writeHTTPResponse(w, http.StatusAccepted, task.View())
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, found := s.taskManager.GetTask(r.PathValue("id"))
	if !found {
		s.writeHTTPError(w, http.StatusNotFound, "task not found")
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, task.View())
}

// --- HTTP response helpers ---

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
