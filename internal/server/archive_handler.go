package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/0xsl1m/StaticChapel-sub001/internal/archive"
)

// ArchiveHandler serves maps from an archive database.
type ArchiveHandler struct {
	reader       *archive.Reader
	logger       *slog.Logger
	cacheControl string
}

// ArchiveConfig configures the archive handler.
type ArchiveConfig struct {
	ArchivePath  string
	CacheControl string
}

// NewArchiveHandler opens the archive at cfg.ArchivePath.
func NewArchiveHandler(cfg ArchiveConfig, logger *slog.Logger) (*ArchiveHandler, error) {
	reader, err := archive.OpenReader(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "public, max-age=3600"
	}

	return &ArchiveHandler{
		reader:       reader,
		logger:       logger,
		cacheControl: cfg.CacheControl,
	}, nil
}

// Handler returns the HTTP handler.
func (h *ArchiveHandler) Handler() http.Handler {
	return http.HandlerFunc(h.serveMap)
}

func (h *ArchiveHandler) serveMap(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	material, kind, ok := parseTexturePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	e, err := h.reader.ReadMap(material, kind)
	if errors.Is(err, archive.ErrNotFound) {
		http.Error(w, "texture not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log().Error("Failed to read map", "material", material, "kind", kind, "error", err)
		http.Error(w, "failed to read texture", http.StatusInternalServerError)
		return
	}

	setMapHeaders(w, e.Wrap, e.Transparent, h.cacheControl)
	if _, err := w.Write(e.Data); err != nil {
		h.log().Error("Failed to write response", "error", err)
	}
}

// Materials lists the materials stored in the archive.
func (h *ArchiveHandler) Materials() ([]string, error) {
	return h.reader.Materials()
}

// Close closes the archive reader.
func (h *ArchiveHandler) Close() error {
	return h.reader.Close()
}

func (h *ArchiveHandler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
