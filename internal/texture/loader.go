package texture

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"

	_ "image/png" // Register PNG decoder
)

// LoadDir reads a directory written by WriteSet and WriteManifest back into sets.
func LoadDir(dir string) ([]*Set, Manifest, error) {
	manifest, err := ReadManifest(dir)
	if err != nil {
		return nil, manifest, err
	}

	sets := make([]*Set, 0, len(manifest.Materials))
	for _, entry := range manifest.Materials {
		maps := make(map[Kind]Map, len(entry.Maps))
		for _, me := range entry.Maps {
			buf, err := loadPNG(filepath.Join(dir, me.File))
			if err != nil {
				return nil, manifest, err
			}
			m := NewMap(buf, me.Wrap, me.Transparent)
			m.Mipmaps = me.Mipmaps
			maps[me.Kind] = m
		}

		set, err := NewSet(entry.Name, maps)
		if err != nil {
			return nil, manifest, err
		}
		sets = append(sets, set)
	}

	return sets, manifest, nil
}

func loadPNG(path string) (*pixel.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	return pixel.FromImage(img)
}
