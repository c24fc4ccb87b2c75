package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("the sales team has 12 members")
		b := IDFromContent("the sales team has 12 members")
		assert.Equal(t, a, b)
	})

	t.Run("different content different id", func(t *testing.T) {
		a := IDFromContent("first document")
		b := IDFromContent("second document")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content produces an id", func(t *testing.T) {
		assert.NotZero(t, IDFromContent(""))
	})
}

func TestChunkID(t *testing.T) {
	t.Run("position matters", func(t *testing.T) {
		a := ChunkID("doc1", 0, "same text")
		b := ChunkID("doc1", 1, "same text")
		assert.NotEqual(t, a, b)
	})

	t.Run("document matters", func(t *testing.T) {
		a := ChunkID("doc1", 0, "same text")
		b := ChunkID("doc2", 0, "same text")
		assert.NotEqual(t, a, b)
	})
}

func TestPassageIdentity(t *testing.T) {
	t.Run("store id wins", func(t *testing.T) {
		p := &Passage{Id: 42, Text: "hello"}
		assert.Equal(t, ID(42), p.Identity())
	})

	t.Run("content hash fallback", func(t *testing.T) {
		p := &Passage{Text: "hello"}
		assert.Equal(t, IDFromContent("hello"), p.Identity())
	})
}

func TestPassageSource(t *testing.T) {
	t.Run("named", func(t *testing.T) {
		p := &Passage{Metadata: map[string]string{"name": "doc1"}}
		assert.Equal(t, "doc1", p.Source())
	})

	t.Run("missing name", func(t *testing.T) {
		p := &Passage{Metadata: map[string]string{}}
		assert.Equal(t, "unknown", p.Source())
	})

	t.Run("nil metadata", func(t *testing.T) {
		p := &Passage{}
		assert.Equal(t, "unknown", p.Source())
	})
}

func TestDocumentMetadata(t *testing.T) {
	doc := &Document{
		Name:      "handbook",
		Summary:   "company handbook",
		URL:       "https://example.com/handbook",
		Category:  "internal",
		UpdatedAt: "",
	}

	meta := doc.Metadata()
	assert.Equal(t, "handbook", meta["name"])
	assert.Equal(t, "company handbook", meta["summary"])
	assert.Equal(t, "https://example.com/handbook", meta["url"])
	assert.Equal(t, "internal", meta["category"])

	// UpdatedAt is freeform and passed through untouched, even when empty.
	v, ok := meta["updated_at"]
	require.True(t, ok)
	assert.Equal(t, "", v)
}

func TestDocumentMUSRoundtrip(t *testing.T) {
	doc := Document{
		Id:        IDFromContent("handbook"),
		Content:   "Our sales team has 12 members.",
		Name:      "handbook",
		Summary:   "company handbook",
		URL:       "https://example.com/handbook",
		Category:  "internal",
		UpdatedAt: "yesterday-ish",
		FetchedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	bs := make([]byte, DocumentMUS.Size(doc))
	n := DocumentMUS.Marshal(doc, bs)
	require.Equal(t, len(bs), n)

	got, n, err := DocumentMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, doc, got)
}

func TestDocumentMUSSkip(t *testing.T) {
	doc := Document{Id: 7, Content: "short", FetchedAt: time.Now().UTC().Truncate(time.Microsecond)}
	bs := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, bs)

	n, err := DocumentMUS.Skip(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
}
