package texture

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteResult reports which files were written or skipped.
type WriteResult struct {
	Written []string
	Skipped []string
}

// FileName returns the file name used for one map of a material.
func FileName(material string, kind Kind) string {
	return fmt.Sprintf("%s_%s.png", material, kind)
}

// WriteSet writes every map of set as a PNG into dir. Existing files are kept
// unless overwrite is set.
func WriteSet(dir string, set *Set, overwrite bool) (WriteResult, error) {
	result := WriteResult{}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create texture dir: %w", err)
	}

	for _, kind := range set.Kinds() {
		path := filepath.Join(dir, FileName(set.Material(), kind))
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				result.Skipped = append(result.Skipped, path)
				continue
			}
		}

		m, _ := set.Map(kind)
		if err := writePNG(path, m); err != nil {
			return result, err
		}
		result.Written = append(result.Written, path)
	}

	return result, nil
}

func writePNG(path string, m Map) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create texture %s: %w", path, err)
	}
	defer file.Close()

	if err := m.EncodePNG(file); err != nil {
		return fmt.Errorf("failed to encode texture %s: %w", path, err)
	}
	return nil
}
