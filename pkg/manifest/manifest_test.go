package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := filepath.Join(t.TempDir(), "artifacts")
	m := NewManager(dir)
	require.NoError(t, m.Create(ctx))

	doc := NewDocument("/src/project", []Artifact{
		{Filename: "readme.md", OriginalPath: "/src/project/readme.md", SizeBytes: 12, Type: "text/markdown"},
		{Filename: "readme_1.md", OriginalPath: "/src/project/docs/readme.md", SizeBytes: 40, Type: "text/markdown"},
	})
	require.NoError(t, m.WriteDocument(ctx, doc))

	loaded, err := m.ReadDocument(ctx)
	require.NoError(t, err, "reading document back")
	assert.Equal(t, "/src/project", loaded.SourceDirectory)
	require.Len(t, loaded.Artifacts, 2)
	assert.Equal(t, "readme_1.md", loaded.Artifacts[1].Filename)
	assert.Equal(t, int64(40), loaded.Artifacts[1].SizeBytes)
	assert.WithinDuration(t, time.Now().UTC(), loaded.CreatedAt, time.Minute)
}

func TestDocumentShape(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := filepath.Join(t.TempDir(), "artifacts")
	m := NewManager(dir)
	require.NoError(t, m.Create(ctx))

	doc := NewDocument("/src", nil)
	require.NoError(t, m.WriteDocument(ctx, doc))

	// The on-disk keys are part of the contract
	raw, err := os.ReadFile(filepath.Join(dir, MetadataFilename))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "created_at")
	assert.Contains(t, decoded, "source_directory")
	assert.Contains(t, decoded, "artifacts")
	assert.Equal(t, []any{}, decoded["artifacts"], "empty runs persist an empty array, not null")
}

func TestCreateWritesSentinel(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := filepath.Join(t.TempDir(), "artifacts")
	m := NewManager(dir)

	exists, err := m.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, m.Create(ctx))

	exists, err = m.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.FileExists(t, filepath.Join(dir, SentinelFilename))
}

func TestCopyFile(t *testing.T) {
	ctx := setupTestLogger(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "data.bin")
	content := []byte{0x00, 0x01, 0x02, 0xff}
	require.NoError(t, os.WriteFile(src, content, 0644))

	dir := filepath.Join(tmp, "artifacts")
	m := NewManager(dir)
	require.NoError(t, m.Create(ctx))

	n, err := m.CopyFile(ctx, src, "data.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	copied, err := os.ReadFile(filepath.Join(dir, "data.bin"))
	require.NoError(t, err)
	assert.Equal(t, content, copied, "bytes must survive the copy unchanged")
}

func TestClearContents(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("keeps_sentinel_and_directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "artifacts")
		m := NewManager(dir)
		require.NoError(t, m.Create(ctx))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644))

		removed, err := m.ClearContents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		assert.FileExists(t, filepath.Join(dir, SentinelFilename))
		assert.DirExists(t, dir)
	})

	t.Run("absent_directory_removes_zero", func(t *testing.T) {
		m := NewManager(filepath.Join(t.TempDir(), "nope"))
		removed, err := m.ClearContents(ctx)
		require.NoError(t, err, "absent directory is not an error")
		assert.Zero(t, removed)
	})
}

func TestRemove(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("removes_tree_and_counts_files", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "artifacts")
		m := NewManager(dir)
		require.NoError(t, m.Create(ctx))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))

		removed, err := m.Remove(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, removed, "artifact plus sentinel")
		assert.NoDirExists(t, dir)
	})

	t.Run("absent_directory_removes_zero", func(t *testing.T) {
		m := NewManager(filepath.Join(t.TempDir(), "nope"))
		removed, err := m.Remove(ctx)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}

func TestWriteFileAtomicLeavesNoTemp(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := filepath.Join(t.TempDir(), "artifacts")
	m := NewManager(dir)
	require.NoError(t, m.Create(ctx))

	require.NoError(t, m.writeFileAtomic("doc.json", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "no temp files left behind")
	}
}
