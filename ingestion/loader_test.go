package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceJSON = `[
	{"content": "Our sales team has 12 members.", "name": "doc1", "summary": "team size", "url": "https://example.com/1", "category": "handbook", "updated_at": "2026-05-01"},
	{"content": "", "name": "empty-doc", "updated_at": "2026-05-02"},
	{"content": "Offices are closed on public holidays.", "name": "doc2", "updated_at": ""}
]`

func writeSource(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	result, err := NewLoader().Load(context.Background(), writeSource(t, sourceJSON))
	require.NoError(t, err)

	require.Len(t, result.Documents, 2)
	assert.Equal(t, "doc1", result.Documents[0].Name)
	assert.Equal(t, "doc2", result.Documents[1].Name)
	assert.NotZero(t, result.Documents[0].Id)
	assert.False(t, result.Documents[0].FetchedAt.IsZero())

	// Empty updated_at is valid; it fails later at the store, not here.
	assert.Equal(t, "", result.Documents[1].UpdatedAt)

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 1, result.Rejected[0].Index)
	assert.Equal(t, "empty-doc", result.Rejected[0].Name)
	assert.ErrorIs(t, result.Rejected[0].Err, core.ErrEmptyContent)
}

func TestLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sourceJSON))
	}))
	defer server.Close()

	result, err := NewLoader().Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, result.Documents, 2)
	assert.Len(t, result.Rejected, 1)
}

func TestLoadURLErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewLoader().Load(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadMalformedSource(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), writeSource(t, `{"not": "an array"}`))
	assert.Error(t, err)
}

func TestLoadEmptySource(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "")
	assert.Equal(t, ErrSourceRequired, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
