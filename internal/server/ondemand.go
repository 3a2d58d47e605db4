package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/material"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// Generator produces the texture set of one material.
type Generator interface {
	Generate(ctx context.Context, material string) (*texture.Set, error)
}

// OnDemandConfig configures on-demand generation.
type OnDemandConfig struct {
	CacheControl             string
	MaxConcurrentGenerations int
	// DisableCache regenerates a material on every request.
	DisableCache bool
	// Materials lists the names that may be generated; nil means every
	// registered recipe.
	Materials []string
}

// OnDemandTextures runs recipes when a map is first requested and keeps the
// resulting sets in memory.
type OnDemandTextures struct {
	gen       Generator
	cfg       OnDemandConfig
	logger    *slog.Logger
	sem       chan struct{}
	materials map[string]bool
	locks     sync.Map // material -> *sync.Mutex
	sets   sync.Map // material -> *texture.Set

	activeRenders atomic.Int32
	totalRendered atomic.Int64
	totalFailed   atomic.Int64
	queued        atomic.Int32
	current       sync.Map // material -> start time
}

// TextureStatus reports the state of on-demand generation.
type TextureStatus struct {
	ActiveRenders    int      `json:"active_renders"`
	TotalRendered    int64    `json:"total_rendered"`
	TotalFailed      int64    `json:"total_failed"`
	QueuedRenders    int      `json:"queued_renders"`
	MaxConcurrent    int      `json:"max_concurrent"`
	CurrentMaterials []string `json:"current_materials"`
	CachedMaterials  []string `json:"cached_materials"`
}

// NewOnDemandTextures wraps gen.
func NewOnDemandTextures(gen Generator, cfg OnDemandConfig, logger *slog.Logger) *OnDemandTextures {
	if cfg.MaxConcurrentGenerations <= 0 {
		cfg.MaxConcurrentGenerations = 1
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}
	if cfg.Materials == nil {
		cfg.Materials = material.Names()
	}
	known := make(map[string]bool, len(cfg.Materials))
	for _, name := range cfg.Materials {
		known[name] = true
	}
	return &OnDemandTextures{
		gen:       gen,
		cfg:       cfg,
		logger:    logger,
		sem:       make(chan struct{}, cfg.MaxConcurrentGenerations),
		materials: known,
	}
}

// Status returns a snapshot of the generation counters.
func (t *OnDemandTextures) Status() TextureStatus {
	status := TextureStatus{
		ActiveRenders:    int(t.activeRenders.Load()),
		TotalRendered:    t.totalRendered.Load(),
		TotalFailed:      t.totalFailed.Load(),
		QueuedRenders:    int(t.queued.Load()),
		MaxConcurrent:    t.cfg.MaxConcurrentGenerations,
		CurrentMaterials: []string{},
		CachedMaterials:  []string{},
	}
	t.current.Range(func(key, _ any) bool {
		status.CurrentMaterials = append(status.CurrentMaterials, key.(string))
		return true
	})
	t.sets.Range(func(key, _ any) bool {
		status.CachedMaterials = append(status.CachedMaterials, key.(string))
		return true
	})
	slices.Sort(status.CurrentMaterials)
	slices.Sort(status.CachedMaterials)
	return status
}

// StatusHandler returns an HTTP handler for the status endpoint (JSON).
func (t *OnDemandTextures) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "no-store")

		if err := json.NewEncoder(w).Encode(t.Status()); err != nil {
			t.log().Error("failed to encode status", "error", err)
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
		}
	})
}

// Handler returns the texture HTTP handler.
func (t *OnDemandTextures) Handler() http.Handler {
	return http.HandlerFunc(t.serveMap)
}

func (t *OnDemandTextures) serveMap(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	name, kind, ok := parseTexturePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// Unknown names are rejected before a per-material lock is created.
	if !t.materials[name] {
		http.Error(w, fmt.Sprintf("unknown material: %s", name), http.StatusNotFound)
		return
	}

	set, err := t.set(r.Context(), name)
	switch {
	case errors.Is(err, material.ErrUnknownMaterial):
		http.Error(w, fmt.Sprintf("unknown material: %s", name), http.StatusNotFound)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("failed to generate %s: %v", name, err), http.StatusInternalServerError)
		return
	}

	m, ok := set.Map(kind)
	if !ok {
		http.Error(w, fmt.Sprintf("%s has no %s map", name, kind), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := m.EncodePNG(&buf); err != nil {
		t.log().Error("failed to encode map", "material", name, "kind", kind, "error", err)
		http.Error(w, "failed to encode texture", http.StatusInternalServerError)
		return
	}

	setMapHeaders(w, m.Wrap, m.Transparent, t.cfg.CacheControl)
	if _, err := w.Write(buf.Bytes()); err != nil {
		t.log().Error("failed to write response", "error", err)
	}
}

// set returns the cached set of name, generating it at most once at a time.
func (t *OnDemandTextures) set(ctx context.Context, name string) (*texture.Set, error) {
	if !t.cfg.DisableCache {
		if v, ok := t.sets.Load(name); ok {
			return v.(*texture.Set), nil
		}
	}

	mu := t.getLock(name)
	mu.Lock()
	defer mu.Unlock()

	if !t.cfg.DisableCache {
		if v, ok := t.sets.Load(name); ok {
			return v.(*texture.Set), nil
		}
	}

	t.queued.Add(1)
	select {
	case t.sem <- struct{}{}:
		t.queued.Add(-1)
		defer func() { <-t.sem }()
	case <-ctx.Done():
		t.queued.Add(-1)
		return nil, ctx.Err()
	}

	t.activeRenders.Add(1)
	t.current.Store(name, time.Now())
	start := time.Now()

	set, err := t.gen.Generate(ctx, name)

	t.activeRenders.Add(-1)
	t.current.Delete(name)

	if err != nil {
		t.totalFailed.Add(1)
		t.log().Error("failed to generate material", "material", name, "error", err)
		return nil, err
	}
	t.totalRendered.Add(1)
	t.log().Info("material generated on-demand", "material", name, "ms", time.Since(start).Milliseconds())

	if !t.cfg.DisableCache {
		t.sets.Store(name, set)
	}
	return set, nil
}

func (t *OnDemandTextures) getLock(key string) *sync.Mutex {
	if v, ok := t.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := t.locks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}

func (t *OnDemandTextures) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}
