package history

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd_MostRecentFirst(t *testing.T) {
	h := New(10)
	h.Add("a.md")
	h.Add("b.md")
	h.Add("c.md")

	require.Equal(t, []string{"c.md", "b.md", "a.md"}, h.Entries())
}

func TestAdd_DuplicateMovesToFront(t *testing.T) {
	h := New(10)
	h.Add("a.md")
	h.Add("b.md")
	h.Add("a.md")

	require.Equal(t, []string{"a.md", "b.md"}, h.Entries())
}

func TestAdd_RespectsLimit(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Add(fmt.Sprintf("doc%d.md", i))
	}

	require.Equal(t, []string{"doc4.md", "doc3.md", "doc2.md"}, h.Entries())
}

func TestAdd_IgnoresEmptyLocation(t *testing.T) {
	h := New(10)
	h.Add("")
	require.Empty(t, h.Entries())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	h := New(10)
	h.Add("a.md")
	h.Add("b.md")
	require.NoError(t, h.Save(path))

	loaded, err := Load(path, 10)
	require.NoError(t, err)
	require.Equal(t, h.Entries(), loaded.Entries())
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	h, err := Load(filepath.Join(t.TempDir(), "history.json"), 10)
	require.NoError(t, err)
	require.Empty(t, h.Entries())
}

func TestLoad_TruncatesToLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	h := New(10)
	for i := 0; i < 5; i++ {
		h.Add(fmt.Sprintf("doc%d.md", i))
	}
	require.NoError(t, h.Save(path))

	loaded, err := Load(path, 2)
	require.NoError(t, err)
	require.Len(t, loaded.Entries(), 2)
}
