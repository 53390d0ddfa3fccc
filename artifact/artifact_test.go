package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewInMemoryStore(),
		"file":   fsStore,
	}
}

func TestStores_SaveGetListDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "b.txt", []byte("first")))
			require.NoError(t, s.Save(ctx, "b.txt", []byte("Hello world")))
			require.NoError(t, s.Save(ctx, "logs/a.txt", []byte("log")))

			data, err := s.Get(ctx, "b.txt")
			require.NoError(t, err)
			assert.Equal(t, "Hello world", string(data))

			names, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"b.txt", "logs/a.txt"}, names)

			require.NoError(t, s.Delete(ctx, "b.txt"))
			_, err = s.Get(ctx, "b.txt")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "b.txt"), ErrNotFound)
		})
	}
}

func TestStores_RejectInvalidNames(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "  ", "../escape.txt", "/etc/passwd", "a/../../b"} {
				assert.ErrorIs(t, s.Save(ctx, bad, []byte("x")), ErrInvalidName, bad)
			}
		})
	}
}

func TestInMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	data := []byte("hello")
	require.NoError(t, s.Save(ctx, "a", data))
	data[0] = 'H'

	out, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out[0] = 'x'
	out2, _ := s.Get(ctx, "a")
	assert.Equal(t, "hello", string(out2))
}

func TestInMemoryStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, fmt.Sprintf("a%d", i%10), []byte("data")))
			_, _ = s.List(ctx)
		}(i)
	}
	wg.Wait()
	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 10)
}

func TestFileStore_WritesVerbatim(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "agents"))
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "draft.txt", []byte("Hello world\n")))

	raw, err := os.ReadFile(filepath.Join(dir, "agents", "draft.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n", string(raw))
}

func TestCleanName(t *testing.T) {
	got, err := CleanName(`dir\file.txt`)
	require.NoError(t, err)
	assert.Equal(t, "dir/file.txt", got)

	got, err = CleanName("./a/b/../c.txt")
	require.NoError(t, err)
	assert.Equal(t, "a/c.txt", got)
}

func TestLocationOf(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(fs.Root(), "draft.txt"), LocationOf(fs, "draft.txt"))
	assert.Equal(t, "notes/a.txt", LocationOf(NewInMemoryStore(), "./notes/a.txt"))
}
