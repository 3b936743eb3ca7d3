package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	snap := &machine.Snapshot{
		Machine: "minimal",
		Tape:    []int{1},
		Status:  domain.StatusRunning,
		Clock:   domain.Clock{Space: 1},
	}
	require.NoError(t, store.Save(ctx, "run-a", snap))

	data, err := os.ReadFile(filepath.Join(dir, "run-a.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status": "running"`)
	assert.Contains(t, string(data), `"halt_order": "decision"`)

	// Stray files are not runs.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-run-b-123.json"), []byte("{}"), 0644))

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a"}, runs)
}

func TestFileStore_RejectsPathRunIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		err := store.Save(ctx, id, &machine.Snapshot{})
		assert.Error(t, err, "runID %q", id)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	runs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}
