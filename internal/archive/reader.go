package archive

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"errors"
	"fmt"
	"image/png"
	"io"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// Reader reads maps from an archive database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens an archive database for reading.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='textures'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain textures table")
	}

	return &Reader{
		db:   db,
		path: path,
	}, nil
}

// ReadMap returns one stored map with ungzipped PNG data.
func (r *Reader) ReadMap(material string, kind texture.Kind) (Entry, error) {
	e := Entry{Material: material, Kind: kind}
	var (
		wrap       string
		compressed []byte
	)
	err := r.db.QueryRow(
		"SELECT wrap, transparent, mipmaps, width, height, data FROM textures WHERE material=? AND kind=?",
		material, string(kind),
	).Scan(&wrap, &e.Transparent, &e.Mipmaps, &e.Width, &e.Height, &compressed)

	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("%w: %s/%s", ErrNotFound, material, kind)
	}
	if err != nil {
		return e, fmt.Errorf("failed to query map: %w", err)
	}
	e.Wrap = texture.Wrap(wrap)

	e.Data, err = gzipDecompress(compressed)
	if err != nil {
		return e, fmt.Errorf("failed to decompress map: %w", err)
	}

	return e, nil
}

// Materials lists the materials in the archive, sorted.
func (r *Reader) Materials() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT material FROM textures ORDER BY material")
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan material row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materials: %w", err)
	}
	return names, nil
}

// LoadSet decodes every stored map of material back into a texture set.
func (r *Reader) LoadSet(material string) (*texture.Set, error) {
	maps := make(map[texture.Kind]texture.Map)
	for _, kind := range texture.Kinds {
		e, err := r.ReadMap(material, kind)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		img, err := png.Decode(bytes.NewReader(e.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", material, kind, err)
		}
		buf, err := pixel.FromImage(img)
		if err != nil {
			return nil, err
		}
		m := texture.NewMap(buf, e.Wrap, e.Transparent)
		m.Mipmaps = e.Mipmaps
		maps[kind] = m
	}
	if len(maps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, material)
	}
	return texture.NewSet(material, maps)
}

// Metadata reads metadata from the database.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		values[name] = value
	}

	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	return metadataFromMap(values), nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	return io.ReadAll(gr)
}
