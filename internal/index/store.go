// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/hbellamy/iepgen/internal/embed"
	"github.com/hbellamy/iepgen/pkg/types"
)

const (
	dbFile       = "index.db"
	manifestFile = "manifest.yaml"
)

// manifest records the embedding configuration an index was built with.
// Load refuses an index whose manifest does not match the current embedder.
type manifest struct {
	Model     string    `yaml:"model"`
	Dimension int       `yaml:"dimension"`
	Chunks    int       `yaml:"chunks"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Save persists the index to dir: a SQLite database of chunks and embedding
// vectors plus a YAML manifest with the embedding configuration. Saving
// replaces any previous index in dir.
func (x *VectorIndex) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing previous index: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE chunks (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		metadata TEXT NOT NULL,
		embedding BLOB NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO chunks (content, metadata, embedding) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range x.chunks {
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for chunk %d: %w", i, err)
		}
		if _, err := stmt.Exec(c.PageContent, string(metaJSON), encodeVector(x.embeddings[i])); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	m := manifest{
		Model:     x.embedder.Model(),
		Dimension: x.embedder.Dimension(),
		Chunks:    len(x.chunks),
		CreatedAt: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644)
}

// Load reads a persisted index from dir and attaches the given embedder for
// queries. A missing or corrupt index, or a manifest recording a different
// embedding model or dimensionality, is an IndexLoadError.
func Load(dir string, embedder embed.Embedder) (*VectorIndex, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, &types.IndexLoadError{Path: dir, Err: err}
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &types.IndexLoadError{Path: dir, Err: fmt.Errorf("parsing manifest: %w", err)}
	}

	if m.Model != embedder.Model() {
		return nil, &types.IndexLoadError{Path: dir, Err: fmt.Errorf(
			"index built with embedding model %q, current model is %q", m.Model, embedder.Model())}
	}
	if m.Dimension != embedder.Dimension() {
		return nil, &types.IndexLoadError{Path: dir, Err: fmt.Errorf(
			"index dimensionality %d does not match embedder dimensionality %d", m.Dimension, embedder.Dimension())}
	}

	dbPath := filepath.Join(dir, dbFile)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, &types.IndexLoadError{Path: dir, Err: err}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, &types.IndexLoadError{Path: dir, Err: err}
	}
	defer db.Close()

	rows, err := db.Query(`SELECT content, metadata, embedding FROM chunks ORDER BY rowid`)
	if err != nil {
		return nil, &types.IndexLoadError{Path: dir, Err: err}
	}
	defer rows.Close()

	x := &VectorIndex{embedder: embedder}
	for rows.Next() {
		var (
			content  string
			metaJSON string
			blob     []byte
		)
		if err := rows.Scan(&content, &metaJSON, &blob); err != nil {
			return nil, &types.IndexLoadError{Path: dir, Err: err}
		}

		var meta types.Metadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, &types.IndexLoadError{Path: dir, Err: fmt.Errorf("parsing chunk metadata: %w", err)}
		}

		vec, err := decodeVector(blob)
		if err != nil {
			return nil, &types.IndexLoadError{Path: dir, Err: err}
		}
		if len(vec) != m.Dimension {
			return nil, &types.IndexLoadError{Path: dir, Err: fmt.Errorf(
				"chunk embedding has %d dimensions, manifest says %d", len(vec), m.Dimension)}
		}

		x.chunks = append(x.chunks, types.Chunk{PageContent: content, Metadata: meta})
		x.embeddings = append(x.embeddings, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.IndexLoadError{Path: dir, Err: err}
	}

	if len(x.chunks) != m.Chunks {
		return nil, &types.IndexLoadError{Path: dir, Err: fmt.Errorf(
			"index holds %d chunks, manifest says %d", len(x.chunks), m.Chunks)}
	}

	return x, nil
}

// encodeVector packs a float32 vector as little-endian bytes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a little-endian float32 vector.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
