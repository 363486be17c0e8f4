package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/skydeck/aeroload/internal/logging"
	"github.com/skydeck/aeroload/internal/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngest accepts one CSV file under the multipart field "file",
// detects its type from the headers, and runs it through the pipeline.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	result, err := s.ingestor.ProcessFile(r.Context(), pipeline.File{
		Name:   header.Filename,
		Reader: file,
	})
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleIngestSales accepts several sales files under the multipart field
// "files" and processes them as one batch, so transaction IDs repeated
// across the files deduplicate against each other.
func (s *Server) handleIngestSales(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, r, http.StatusBadRequest, "files too large or invalid form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, r, http.StatusBadRequest, "no files provided")
		return
	}

	files := make([]pipeline.File, 0, len(headers))
	var closers []interface{ Close() error }
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "could not open uploaded file "+h.Filename)
			return
		}
		closers = append(closers, f)
		files = append(files, pipeline.File{Name: h.Filename, Reader: f})
	}

	results, err := s.ingestor.ProcessBatch(r.Context(), files)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// handleQuarantine lists recent quarantine entries. The optional limit query
// parameter caps the result; it defaults to 100 and tops out at 1000.
func (s *Server) handleQuarantine(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	}

	entries, err := s.quarantine.ListQuarantine(r.Context(), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "could not list quarantine entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}

// writeJSON encodes v as JSON. Encoding errors are logged since the status
// line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("json encode failed", "error", err)
	}
}

// writeError writes a JSON error response and logs the full message
// server-side.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Warn("request failed", "status", status, "error", message)
	writeJSON(w, status, map[string]string{"error": message})
}
