// Package production provides production integrations: snapshot persistence,
// step publishing, visualization and the run-record store.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/turingx/internal/core"
)

// JSONPersister is a file-based persister, one JSON file per run ID.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

// Path returns the file a run is stored in.
func (p *JSONPersister) Path(runID string) string {
	return filepath.Join(p.dir, runID+".json")
}

func (p *JSONPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if snapshot.RunID == "" {
		return errors.New("save snapshot: empty run ID")
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn := p.Path(snapshot.RunID)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *JSONPersister) Load(ctx context.Context, runID string) (core.Snapshot, error) {
	data, err := readSnapshotFile(p.Path(runID), runID)
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.RunID = runID
	return snapshot, nil
}

// YAMLPersister is a file-based persister, one YAML file per run ID.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

// Path returns the file a run is stored in.
func (p *YAMLPersister) Path(runID string) string {
	return filepath.Join(p.dir, runID+".yaml")
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if snapshot.RunID == "" {
		return errors.New("save snapshot: empty run ID")
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	fn := p.Path(snapshot.RunID)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *YAMLPersister) Load(ctx context.Context, runID string) (core.Snapshot, error) {
	data, err := readSnapshotFile(p.Path(runID), runID)
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.RunID = runID
	if err := snapshot.Definition.Validate(); err != nil {
		return core.Snapshot{}, fmt.Errorf("definition validation after load: %w", err)
	}
	return snapshot, nil
}

// NewPersister returns a persister for format "json" or "yaml".
func NewPersister(format, dir string) (core.Persister, error) {
	switch format {
	case "json", "":
		return NewJSONPersister(dir)
	case "yaml", "yml":
		return NewYAMLPersister(dir)
	}
	return nil, fmt.Errorf("unknown snapshot format %q", format)
}

// LoadSnapshotFile reads a snapshot written by either persister, choosing the
// decoder from the extension. The run ID falls back to the file name.
func LoadSnapshotFile(path string) (core.Snapshot, error) {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	runID := strings.TrimSuffix(name, ext)
	data, err := readSnapshotFile(path, runID)
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &snapshot)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &snapshot)
	default:
		return core.Snapshot{}, fmt.Errorf("unknown snapshot extension %q", ext)
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if snapshot.RunID == "" {
		snapshot.RunID = runID
	}
	return snapshot, nil
}

func readSnapshotFile(fn, runID string) ([]byte, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("run %q: %w", runID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}
