package texture

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// ManifestFile is the name of the manifest written next to the PNGs.
const ManifestFile = "textures.yaml"

// Manifest describes a directory of generated maps for the scene consumer.
type Manifest struct {
	Generator string          `yaml:"generator"`
	Size      int             `yaml:"size"`
	Seed      int64           `yaml:"seed"`
	Materials []MaterialEntry `yaml:"materials"`
}

// MaterialEntry lists the maps of one material.
type MaterialEntry struct {
	Name string     `yaml:"name"`
	Maps []MapEntry `yaml:"maps"`
}

// MapEntry carries the tags a consumer needs to upload one map.
type MapEntry struct {
	Kind        Kind   `yaml:"kind"`
	File        string `yaml:"file"`
	Wrap        Wrap   `yaml:"wrap"`
	Transparent bool   `yaml:"transparent"`
	Mipmaps     bool   `yaml:"mipmaps"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
}

// EntryFor describes set using the file names WriteSet produces.
func EntryFor(set *Set) MaterialEntry {
	entry := MaterialEntry{Name: set.Material()}
	for _, kind := range set.Kinds() {
		m, _ := set.Map(kind)
		entry.Maps = append(entry.Maps, MapEntry{
			Kind:        kind,
			File:        FileName(set.Material(), kind),
			Wrap:        m.Wrap,
			Transparent: m.Transparent,
			Mipmaps:     m.Mipmaps,
			Width:       m.Width(),
			Height:      m.Height(),
		})
	}
	return entry
}

// WriteManifest writes m as YAML into dir.
func WriteManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads the manifest from dir.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return m, nil
}
