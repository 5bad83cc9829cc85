// Tests for snapshot persisters and resuming a machine from disk.
package production

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/comalice/turingx/internal/core"
)

func runToSnapshot(t *testing.T, runID string, steps int) core.Snapshot {
	t.Helper()
	m, err := core.NewMachine(scanner(), "111", core.WithRunID(runID))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < steps; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	return m.Snapshot()
}

func TestPersisters_RoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			p, err := NewPersister(format, t.TempDir())
			if err != nil {
				t.Fatalf("NewPersister failed: %v", err)
			}
			snapshot := runToSnapshot(t, "run-"+format, 2)
			if err := p.Save(context.Background(), snapshot); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := p.Load(context.Background(), snapshot.RunID)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !loaded.Timestamp.Equal(snapshot.Timestamp) {
				t.Errorf("Timestamp mismatch: got %v, want %v", loaded.Timestamp, snapshot.Timestamp)
			}
			loaded.Timestamp = snapshot.Timestamp
			if !reflect.DeepEqual(loaded, snapshot) {
				t.Errorf("Snapshot mismatch:\ngot  %+v\nwant %+v", loaded, snapshot)
			}
		})
	}
}

func TestPersisters_LoadNonExistent(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		p, err := NewPersister(format, t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		_, err = p.Load(context.Background(), "nonexistent")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s: expected os.ErrNotExist wrapped error, got %v", format, err)
		}
	}
}

func TestPersisters_RejectEmptyRunID(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Save(context.Background(), core.Snapshot{}); err == nil {
		t.Error("expected error for empty run ID")
	}
	if _, err := NewPersister("xml", t.TempDir()); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPersister_Integration_ResumeMachine(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Save(context.Background(), runToSnapshot(t, "resume", 2)); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadSnapshotFile(filepath.Join(dir, "resume.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := core.Resume(loaded)
	if err != nil {
		t.Fatal(err)
	}
	if m.Head() != 2 || m.Steps() != 2 {
		t.Fatalf("resumed at head %d after %d steps, want 2 and 2", m.Head(), m.Steps())
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Reason() != core.FinalState || m.Steps() != 4 || m.TapeString() != "111B" {
		t.Errorf("got reason %s steps %d tape %q", m.Reason(), m.Steps(), m.TapeString())
	}
}

func TestLoadSnapshotFile_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshotFile(path); err == nil {
		t.Error("expected error for unknown extension")
	}
}
