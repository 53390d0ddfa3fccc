package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/tool"
)

func newRegistry(t *testing.T, d *Document) *tool.Registry {
	t.Helper()
	r := tool.NewRegistry()
	require.NoError(t, r.RegisterAll(d.Tools()...))
	return r
}

func TestDocument_UpdateThenSave(t *testing.T) {
	dir := t.TempDir()
	store, err := artifact.NewFileStore(dir)
	require.NoError(t, err)

	d := New(store)
	r := newRegistry(t, d)
	ctx := context.Background()

	res := r.Execute(ctx, core.ToolCall{ID: "1", Name: "update", Arguments: `{"content":"Hello world"}`})
	require.False(t, res.IsError, res.Content)
	assert.Equal(t, "Document has been updated successfully! The current content is:\nHello world", res.Content)
	assert.Equal(t, "Hello world", d.Content())

	res = r.Execute(ctx, core.ToolCall{ID: "2", Name: "save", Arguments: `{"filename":"draft"}`})
	require.False(t, res.IsError, res.Content)
	assert.Contains(t, res.Content, "saved")
	assert.Contains(t, res.Content, filepath.Join(dir, "draft.txt"))
	assert.Equal(t, core.SignalDocumentSaved, res.Signal)

	raw, err := os.ReadFile(filepath.Join(dir, "draft.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", string(raw))
}

func TestDocument_SaveOverwrites(t *testing.T) {
	store := artifact.NewInMemoryStore()
	d := New(store, func(o *Options) { o.Content = "first" })
	ctx := context.Background()

	_, err := d.Save(ctx, "notes.txt")
	require.NoError(t, err)
	d.Update("second")
	name, err := d.Save(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", name)

	data, err := store.Get(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDocument_SaveFailureIsToolError(t *testing.T) {
	d := New(artifact.NewInMemoryStore())
	r := newRegistry(t, d)

	res := r.Execute(context.Background(), core.ToolCall{ID: "1", Name: "save", Arguments: `{"filename":"../escape"}`})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "EXECUTION_ERROR")
	assert.Empty(t, res.Signal)
}

func TestDocument_UpdateRequiresContent(t *testing.T) {
	d := New(artifact.NewInMemoryStore())
	r := newRegistry(t, d)

	res := r.Execute(context.Background(), core.ToolCall{ID: "1", Name: "update", Arguments: `{}`})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "ARGUMENT_ERROR")
}

func TestDocument_NoStore(t *testing.T) {
	_, err := New(nil).Save(context.Background(), "x")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	for in, want := range map[string]string{
		"draft":     "draft.txt",
		"draft.txt": "draft.txt",
		" a/b ":     "a/b.txt",
	} {
		got, err := FileName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, blank := range []string{"", "   ", ".txt", "notes/", "notes/.txt"} {
		_, err := FileName(blank)
		assert.ErrorIs(t, err, ErrBlankName, blank)
	}
}

func TestDocument_SaveRejectsBlankFilename(t *testing.T) {
	store := artifact.NewInMemoryStore()
	d := New(store, func(o *Options) { o.Content = "text" })
	r := newRegistry(t, d)

	res := r.Execute(context.Background(), core.ToolCall{ID: "1", Name: "save", Arguments: `{"filename":"  "}`})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "ARGUMENT_ERROR")
	assert.Empty(t, res.Signal)

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
