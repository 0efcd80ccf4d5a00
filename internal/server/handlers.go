package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rbxup/internal/models"
	"github.com/desertthunder/rbxup/internal/tasks"
)

// ReuploadHandler serves the reupload API consumed by the Studio plugin.
//
// Endpoints:
//   - GET  /api/ping           : liveness probe
//   - POST /api/reupload       : migrate a single asset
//   - POST /api/reupload_list  : migrate a batch of assets
type ReuploadHandler struct {
	engine  tasks.Engine
	history models.Repository[*models.ReuploadRecord]
	logger  *log.Logger
}

// NewReuploadHandler creates a handler backed by the given engine.
//
// history may be nil; batches then run without persistence.
func NewReuploadHandler(engine tasks.Engine, history models.Repository[*models.ReuploadRecord], logger *log.Logger) *ReuploadHandler {
	return &ReuploadHandler{engine: engine, history: history, logger: logger}
}

// Routes returns the patterns this handler serves.
func (h *ReuploadHandler) Routes() []string {
	return []string{
		"GET /api/ping",
		"POST /api/reupload",
		"POST /api/reupload_list",
	}
}

// ServeHTTP dispatches to the endpoint implementations.
func (h *ReuploadHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.URL.Path {
	case "/api/ping":
		h.handlePing(w, req)
	case "/api/reupload":
		h.handleReupload(w, req)
	case "/api/reupload_list":
		h.handleReuploadList(w, req)
	default:
		http.NotFound(w, req)
	}
}

func (h *ReuploadHandler) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"pong": true})
}

// listPayload is the batch request body sent by the plugin.
type listPayload struct {
	Items []tasks.Item `json:"items"`
}

func (h *ReuploadHandler) handleReupload(w http.ResponseWriter, req *http.Request) {
	var item tasks.Item
	if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if item.SourceID <= 0 {
		writeError(w, http.StatusBadRequest, "oldId must be a positive asset id")
		return
	}

	batch, err := h.engine.Run(req.Context(), []tasks.Item{item}, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.persist(batch)
	writeJSON(w, http.StatusOK, batch.Results[0])
}

func (h *ReuploadHandler) handleReuploadList(w http.ResponseWriter, req *http.Request) {
	var payload listPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(payload.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	for _, item := range payload.Items {
		if item.SourceID <= 0 {
			writeError(w, http.StatusBadRequest, "every item needs a positive oldId")
			return
		}
	}

	batch, err := h.engine.Run(req.Context(), payload.Items, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.persist(batch)
	writeJSON(w, http.StatusOK, map[string]any{
		"batchId": batch.BatchID,
		"results": batch.Results,
		"count":   len(batch.Results),
	})
}

// persist writes one history record per result. Persistence failures are
// logged, never surfaced to the plugin.
func (h *ReuploadHandler) persist(batch *tasks.BatchResult) {
	if h.history == nil {
		return
	}

	for _, res := range batch.Results {
		record := models.NewReuploadRecord(0, batch.BatchID, res.SourceID, res.Kind, res.Name, string(res.Status))
		record.SetNewID(res.NewID)
		record.SetErrorMessage(res.Error)

		if err := h.history.Create(record); err != nil && h.logger != nil {
			h.logger.Error("failed to persist reupload record", "source_id", res.SourceID, "error", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var _ Handler = (*ReuploadHandler)(nil)
