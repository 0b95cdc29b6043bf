package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/textstitch/textstitch/internal/exporter"
	"github.com/textstitch/textstitch/internal/extractor"
	"github.com/textstitch/textstitch/internal/processor"
	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/internal/tokenizer"
	"github.com/textstitch/textstitch/pkg/types"
)

// maxUploadBytes caps multipart upload size at 50 MB
const maxUploadBytes = 50 << 20

type processRequest struct {
	Text     string          `json:"text"`
	Filename string          `json:"filename,omitempty"`
	Save     bool            `json:"save,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
}

type processResponse struct {
	ResultID string                  `json:"result_id,omitempty"`
	Result   *types.ProcessingResult `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTokenizers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tokenizers": tokenizer.Available(),
		"default":    tokenizer.ProviderWordEstimate,
	})
}

// handleProcess runs raw text through the pipeline. The request config
// is a partial override: any field left out keeps the server default.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := s.defaults
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			http.Error(w, "invalid config: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	extension := strings.TrimPrefix(filepath.Ext(req.Filename), ".")
	result, err := processor.Process(req.Text, extension, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if req.Filename != "" {
		result.FileInfo.Filename = filepath.Base(req.Filename)
	}

	resp := processResponse{Result: result}
	if req.Save {
		id, err := s.store.SaveResult(r.Context(), result)
		if err != nil {
			http.Error(w, "failed to save result: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp.ResultID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleUpload accepts a multipart file, extracts its text, and
// processes it. The result is always persisted.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	doc, err := extractor.Extract(file, filename)
	if err != nil {
		if errors.Is(err, types.ErrUnsupportedFormat) {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}
		http.Error(w, "extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := processor.Process(doc.Text, doc.Format, s.defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	result.FileInfo.Filename = filename
	result.FileInfo.SizeBytes = doc.SizeBytes

	id, err := s.store.SaveResult(r.Context(), result)
	if err != nil {
		http.Error(w, "failed to save result: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, processResponse{ResultID: id, Result: result})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	summaries, err := s.store.ListResults(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "failed to list results: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": summaries,
		"count":   len(summaries),
	})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	stored, err := s.lookupResult(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteResult(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.cache.Remove(id)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleExportResult(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := s.lookupResult(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	base := strings.TrimSuffix(stored.Result.FileInfo.Filename, filepath.Ext(stored.Result.FileInfo.Filename))
	if base == "" {
		base = stored.ID
	}

	w.Header().Set("Content-Type", exportContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", base+"_chunks"+format.Extension()))

	if err := exporter.Export(w, stored, format); err != nil {
		s.logger.Error("export failed", "id", stored.ID, "error", err)
	}
}

// lookupResult fetches a stored result by URL id, consulting the LRU
// cache before the database.
func (s *Server) lookupResult(r *http.Request) (*storage.StoredResult, error) {
	id := chi.URLParam(r, "id")
	if stored, ok := s.cache.Get(id); ok {
		return stored, nil
	}

	stored, err := s.store.GetResult(r.Context(), id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, stored)
	return stored, nil
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func exportContentType(format exporter.Format) string {
	switch format {
	case exporter.FormatJSON:
		return "application/json"
	case exporter.FormatCSV:
		return "text/csv"
	default:
		return "application/x-ndjson"
	}
}
