package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgurozkan01/pyLog/internal/archive"
	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/store"
)

func TestReplayArchiveIntoStore(t *testing.T) {
	ctx := context.Background()
	arc, err := archive.New(t.TempDir(), 10, 0)
	require.NoError(t, err)
	require.NoError(t, arc.Write(ctx, []model.LogRecord{{Cursor: "a", Message: "one"}, {Cursor: "b", Message: "two"}}))
	require.NoError(t, arc.Write(ctx, []model.LogRecord{{Cursor: "c", Message: "three"}}))

	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Write(ctx, []model.LogRecord{{Cursor: "a", Message: "one"}}))

	var progress []int
	res, err := ReplayArchive(ctx, arc, st, nil, func(r ImportResult) { progress = append(progress, r.Written) })
	require.NoError(t, err)
	assert.Equal(t, 3, res.Lines)
	assert.Equal(t, 3, res.Written)
	assert.Equal(t, 2, res.Inserted)
	assert.Zero(t, res.Failed)
	assert.Equal(t, []int{2, 3}, progress)

	total, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestReplayArchiveCountsBrokenSegments(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	arc, err := archive.New(dir, 10, 0)
	require.NoError(t, err)
	require.NoError(t, arc.Write(ctx, []model.LogRecord{{Cursor: "a"}}))

	segs, err := arc.ListSegments()
	require.NoError(t, err)
	require.Len(t, segs, 1)
	require.NoError(t, os.Remove(filepath.Join(segs[0].Path, "records.jsonl.zst")))

	sink := &memSink{}
	res, err := ReplayArchive(ctx, arc, sink, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.ErrorIs(t, res.Errors[0], archive.ErrNotFound)
	assert.Empty(t, sink.batches)
}

func TestReplayArchiveCancelled(t *testing.T) {
	arc, err := archive.New(t.TempDir(), 10, 0)
	require.NoError(t, err)
	require.NoError(t, arc.Write(context.Background(), []model.LogRecord{{Cursor: "a"}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := ReplayArchive(ctx, arc, &memSink{}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Written)
}
