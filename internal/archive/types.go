// Package archive stores generated texture sets in a single SQLite file.
package archive

import (
	"errors"
	"strconv"

	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// ErrNotFound is returned when a map is not in the archive.
var ErrNotFound = errors.New("archive: map not found")

// Metadata describes how an archive was produced.
type Metadata struct {
	Name        string // Human-readable archive name
	Generator   string // Tool that wrote the archive
	Version     string
	Description string
	Size        int   // Surface texture resolution
	Seed        int64 // Generator seed
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Generator != "" {
		result["generator"] = m.Generator
	}
	if m.Version != "" {
		result["version"] = m.Version
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Size > 0 {
		result["size"] = strconv.Itoa(m.Size)
	}
	result["seed"] = strconv.FormatInt(m.Seed, 10)

	return result
}

func metadataFromMap(values map[string]string) Metadata {
	meta := Metadata{
		Name:        values["name"],
		Generator:   values["generator"],
		Version:     values["version"],
		Description: values["description"],
	}
	if v, ok := values["size"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			meta.Size = i
		}
	}
	if v, ok := values["seed"]; ok {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			meta.Seed = i
		}
	}
	return meta
}

// Entry is one stored map: its PNG bytes and sampling tags.
type Entry struct {
	Material    string
	Kind        texture.Kind
	Wrap        texture.Wrap
	Transparent bool
	Mipmaps     bool
	Width       int
	Height      int
	Data        []byte // PNG data (gzip-compressed in the database)
}
