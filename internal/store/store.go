// Package store persists cosmology snapshots as JSON documents under a
// base directory, one subdirectory per saved snapshot.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/cosmolab/internal/cosmology"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Engine    string    `json:"engine,omitempty"`
	H         float64   `json:"h"`
	NNcdm     int       `json:"n_ncdm"`
}

// Save writes the snapshot and its metadata under a fresh id derived
// from the label and the current time.
func (s *Store) Save(label string, state *cosmology.State) (string, error) {
	id := fmt.Sprintf("%s_%d", label, time.Now().Unix())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:        id,
		Label:     label,
		Timestamp: time.Now(),
		H:         floatParam(state.Params, "h"),
		NNcdm:     listLen(state.Params, "m_ncdm"),
	}
	if state.Engine != nil {
		meta.Engine = state.Engine.Name
	}

	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "cosmology.json"), state); err != nil {
		return "", err
	}
	return id, nil
}

// Load reads back the snapshot saved under id.
func (s *Store) Load(id string) (*cosmology.State, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "cosmology.json"))
	if err != nil {
		return nil, err
	}
	var state cosmology.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// List returns the metadata of every readable snapshot; unreadable
// entries are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	snapshots := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		snapshots = append(snapshots, meta)
	}
	return snapshots, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func floatParam(values map[string]any, name string) float64 {
	f, _ := values[name].(float64)
	return f
}

func listLen(values map[string]any, name string) int {
	switch v := values[name].(type) {
	case []float64:
		return len(v)
	case []any:
		return len(v)
	}
	return 0
}
