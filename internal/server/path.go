// Package server serves generated texture maps over HTTP.
package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// PathPrefix is the URL prefix of texture requests.
const PathPrefix = "/textures/"

// parseTexturePath parses a path like /textures/stone_floor/normal.png.
func parseTexturePath(requestPath string) (string, texture.Kind, bool) {
	rest, ok := strings.CutPrefix(requestPath, PathPrefix)
	if !ok {
		return "", "", false
	}
	material, file, ok := strings.Cut(rest, "/")
	if !ok || material == "" || strings.Contains(file, "/") {
		return "", "", false
	}
	name, ok := strings.CutSuffix(file, ".png")
	if !ok {
		return "", "", false
	}
	kind, err := texture.ParseKind(name)
	if err != nil {
		return "", "", false
	}
	return material, kind, true
}

// setCORS allows browser-based scene previews to fetch textures.
func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// setMapHeaders exposes the sampling tags next to the PNG body.
func setMapHeaders(w http.ResponseWriter, wrap texture.Wrap, transparent bool, cacheControl string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Texture-Wrap", string(wrap))
	w.Header().Set("X-Texture-Transparent", strconv.FormatBool(transparent))
}
