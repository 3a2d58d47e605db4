package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xsl1m/StaticChapel-sub001/internal/archive"
	"github.com/0xsl1m/StaticChapel-sub001/internal/material"
	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// fakeMaterials are the names the on-demand handler accepts in these tests.
var fakeMaterials = []string{"glass", "cracked", "slow", "phantom"}

type fakeGenerator struct {
	calls atomic.Int32
}

func (f *fakeGenerator) Generate(_ context.Context, name string) (*texture.Set, error) {
	f.calls.Add(1)
	switch name {
	case "glass":
	case "cracked":
		return nil, errors.New("kiln cracked")
	case "slow":
		return nil, fmt.Errorf("firing: %w", context.DeadlineExceeded)
	default:
		return nil, fmt.Errorf("%w: %q", material.ErrUnknownMaterial, name)
	}
	buf, err := pixel.New(4, 4)
	if err != nil {
		return nil, err
	}
	buf.FillRect(buf.Bounds(), color.NRGBA{R: 200, G: 20, B: 20, A: 180})
	return texture.NewSet(name, map[texture.Kind]texture.Map{
		texture.Diffuse: texture.NewMap(buf, texture.WrapClamp, true),
	})
}

func TestParseTexturePath(t *testing.T) {
	tests := []struct {
		path     string
		material string
		kind     texture.Kind
		ok       bool
	}{
		{"/textures/stone_floor/diffuse.png", "stone_floor", texture.Diffuse, true},
		{"/textures/wood_grain/normal.png", "wood_grain", texture.Normal, true},
		{"/textures/wood_grain/roughness.png", "wood_grain", texture.Roughness, true},
		{"/textures/wood_grain/normal.jpg", "", "", false},
		{"/textures/wood_grain/height.png", "", "", false},
		{"/textures//diffuse.png", "", "", false},
		{"/textures/a/b/diffuse.png", "", "", false},
		{"/tiles/stone_floor/diffuse.png", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			name, kind, ok := parseTexturePath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.material, name)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestOnDemandServesAndCaches(t *testing.T) {
	gen := &fakeGenerator{}
	h := NewOnDemandTextures(gen, OnDemandConfig{Materials: fakeMaterials}, nil).Handler()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/textures/glass/diffuse.png", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "clamp", rec.Header().Get("X-Texture-Wrap"))
		assert.Equal(t, "true", rec.Header().Get("X-Texture-Transparent"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

		img, err := png.Decode(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, 4, img.Bounds().Dx())
	}
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestOnDemandDisableCache(t *testing.T) {
	gen := &fakeGenerator{}
	h := NewOnDemandTextures(gen, OnDemandConfig{DisableCache: true, Materials: fakeMaterials}, nil).Handler()

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/textures/glass/diffuse.png", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, int32(3), gen.calls.Load())
}

func TestOnDemandErrors(t *testing.T) {
	gen := &fakeGenerator{}
	h := NewOnDemandTextures(gen, OnDemandConfig{Materials: fakeMaterials}, nil).Handler()

	tests := []struct {
		path string
		code int
	}{
		{"/textures/granite/diffuse.png", http.StatusNotFound},
		{"/textures/phantom/diffuse.png", http.StatusNotFound},
		{"/textures/glass/normal.png", http.StatusNotFound},
		{"/textures/cracked/diffuse.png", http.StatusInternalServerError},
		{"/textures/slow/diffuse.png", http.StatusRequestTimeout},
		{"/textures/glass/diffuse.jpg", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.code, rec.Code, tt.path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/textures/glass/diffuse.png", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOnDemandStatus(t *testing.T) {
	gen := &fakeGenerator{}
	od := NewOnDemandTextures(gen, OnDemandConfig{MaxConcurrentGenerations: 2, Materials: fakeMaterials}, nil)

	od.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/textures/glass/diffuse.png", nil))
	od.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/textures/cracked/diffuse.png", nil))
	od.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/textures/granite/diffuse.png", nil))

	rec := httptest.NewRecorder()
	od.StatusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status TextureStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, int64(1), status.TotalRendered)
	assert.Equal(t, int64(1), status.TotalFailed)
	assert.Equal(t, 2, status.MaxConcurrent)
	assert.Equal(t, []string{"glass"}, status.CachedMaterials)
	assert.Empty(t, status.CurrentMaterials)
}

func TestOnDemandRejectsUnknownNamesBeforeLocking(t *testing.T) {
	gen := &fakeGenerator{}
	od := NewOnDemandTextures(gen, OnDemandConfig{Materials: fakeMaterials}, nil)

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		od.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/textures/made_up_%d/diffuse.png", i), nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Equal(t, int32(0), gen.calls.Load())

	locks := 0
	od.locks.Range(func(_, _ any) bool {
		locks++
		return true
	})
	assert.Zero(t, locks)
}

func TestOnDemandDefaultsToRegisteredRecipes(t *testing.T) {
	od := NewOnDemandTextures(&fakeGenerator{}, OnDemandConfig{}, nil)
	for _, name := range material.Names() {
		assert.True(t, od.materials[name], name)
	}
	assert.False(t, od.materials["glass"])
}

func TestOnDemandWithMaterialGenerator(t *testing.T) {
	gen, err := material.New(material.Config{Size: 32, Seed: 3, FieldSize: 16})
	require.NoError(t, err)
	h := NewOnDemandTextures(gen, OnDemandConfig{}, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/textures/stone_floor/normal.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "repeat", rec.Header().Get("X-Texture-Wrap"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestArchiveHandler(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "textures.chapeltex")
	gen := &fakeGenerator{}
	set, err := gen.Generate(context.Background(), "glass")
	require.NoError(t, err)

	w, err := archive.New(dbPath, archive.Metadata{Name: "test"})
	require.NoError(t, err)
	require.NoError(t, w.WriteSet(set))
	require.NoError(t, w.Close())

	ah, err := NewArchiveHandler(ArchiveConfig{ArchivePath: dbPath}, nil)
	require.NoError(t, err)
	defer ah.Close()

	materials, err := ah.Materials()
	require.NoError(t, err)
	assert.Equal(t, []string{"glass"}, materials)

	rec := httptest.NewRecorder()
	ah.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/textures/glass/diffuse.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "true", rec.Header().Get("X-Texture-Transparent"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dy())

	rec = httptest.NewRecorder()
	ah.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/textures/glass/normal.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
