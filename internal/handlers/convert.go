// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/depscope/core/internal/converter"
	"github.com/depscope/core/internal/service"
	"github.com/depscope/core/internal/store"
)

const maxDocumentSize = 32 << 20

type GraphHandler struct {
	graphs *service.GraphService
	log    *slog.Logger
}

func NewGraphHandler(graphs *service.GraphService, log *slog.Logger) *GraphHandler {
	if log == nil {
		log = slog.Default()
	}
	return &GraphHandler{graphs: graphs, log: log}
}

type DetectResponse struct {
	Type converter.DependencyType `json:"type"`
}

// Convert handles POST /convert. The body is the analyzer document.
// Query parameters: type forces a converter, stats=true adds statistics,
// save=true with project=name persists the graph, pretty=true indents.
func (h *GraphHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	project := query.Get("project")
	save := query.Get("save") == "true"
	if save && project == "" {
		http.Error(w, "project is required when save=true", http.StatusBadRequest)
		return
	}

	graph, err := h.graphs.Convert(r.Context(), query.Get("type"), body)
	if err != nil {
		h.fail(w, r, "Conversion failed", err)
		return
	}

	if save {
		if err := h.graphs.Save(r.Context(), project, graph); err != nil {
			h.fail(w, r, "Saving graph failed", err)
			return
		}
	}

	if query.Get("stats") == "true" {
		graph = service.WithStats(graph)
	}

	writeJSON(w, r, h.log, graph)
}

// Detect handles POST /detect.
func (h *GraphHandler) Detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	writeJSON(w, r, h.log, DetectResponse{Type: h.graphs.Detect(body)})
}

// LoadGraph handles GET /graphs/{project}.
func (h *GraphHandler) LoadGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	graph, err := h.graphs.Load(r.Context(), r.PathValue("project"))
	if err != nil {
		h.fail(w, r, "Loading graph failed", err)
		return
	}

	if r.URL.Query().Get("stats") == "true" {
		graph = service.WithStats(graph)
	}

	writeJSON(w, r, h.log, graph)
}

func (h *GraphHandler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(message, slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
	http.Error(w, message+": "+err.Error(), status)
}

func statusFor(err error) int {
	var unsupported *converter.UnsupportedFormatError
	switch {
	case errors.Is(err, converter.ErrEmptyDocument),
		errors.Is(err, converter.ErrMalformedDocument),
		errors.Is(err, store.ErrInvalidProject):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStoreDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Body == nil {
		return nil, true
	}
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Document too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		log.Error("error encoding response", slog.String("error", err.Error()))
	}
}
