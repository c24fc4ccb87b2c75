package storage

import (
	"testing"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDRoundtrip(t *testing.T) {
	for _, id := range []core.ID{0, 1, 42, core.IDFromContent("hello")} {
		data := MarshalID(id)
		got, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestDocumentRoundtrip(t *testing.T) {
	doc := &core.Document{
		Id:        core.IDFromContent("body"),
		Content:   "body",
		Name:      "doc1",
		Summary:   "a summary",
		URL:       "https://example.com/doc1",
		Category:  "handbook",
		UpdatedAt: "2026-05-01",
		FetchedAt: time.Date(2026, 8, 20, 12, 30, 0, 0, time.UTC),
	}

	data := MarshalDocument(doc)
	got, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestUnmarshalDocumentTruncated(t *testing.T) {
	data := MarshalDocument(&core.Document{Content: "body", Name: "doc1"})
	_, err := UnmarshalDocument(data[:len(data)/2])
	assert.Error(t, err)
}
