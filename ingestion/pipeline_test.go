package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/store"
	"github.com/poiesic/answerit/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineSplitter splits on newlines so tests control chunk boundaries exactly.
type lineSplitter struct{}

func (lineSplitter) Split(text string) ([]string, error) {
	if !strings.Contains(text, "\n") {
		return []string{text}, nil
	}
	return strings.Split(text, "\n"), nil
}

// rejectingStore wraps another store and fails points by predicate.
type rejectingStore struct {
	store.VectorStore
	reject func(store.Point) bool
}

func (s *rejectingStore) Upsert(ctx context.Context, points []store.Point) (*store.UpsertResult, error) {
	result := &store.UpsertResult{}
	var accepted []store.Point
	for _, p := range points {
		if s.reject(p) {
			result.Failed = append(result.Failed, store.PointError{Id: p.Id, Err: errors.New("unable to parse datetime")})
			continue
		}
		accepted = append(accepted, p)
	}
	inner, err := s.VectorStore.Upsert(ctx, accepted)
	if err != nil {
		return nil, err
	}
	result.Upserted = inner.Upserted
	return result, nil
}

func newTestPipeline(t *testing.T, vectorStore store.VectorStore) *Pipeline {
	t.Helper()
	p, err := NewPipeline(vectorStore, mock.NewMockEmbedder(), lineSplitter{}, WithBatchSize(2))
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("stores every chunk", func(t *testing.T) {
		memStore := memory.NewStore()
		p := newTestPipeline(t, memStore)

		report, err := p.Index(ctx, []*core.Document{
			{Content: "first line\nsecond line\nthird line", Name: "doc1", UpdatedAt: "2026-05-01"},
			{Content: "a single chunk", Name: "doc2", UpdatedAt: "2026-05-02"},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, report.Documents)
		assert.Equal(t, 4, report.Chunks)
		assert.Equal(t, 4, report.Indexed)
		assert.Zero(t, report.Failed)
		assert.Equal(t, 4, memStore.Len())
	})

	t.Run("chunk metadata carries the document fields", func(t *testing.T) {
		memStore := memory.NewStore()
		p := newTestPipeline(t, memStore)

		_, err := p.Index(ctx, []*core.Document{
			{Content: "the only chunk", Name: "doc1", Category: "handbook", UpdatedAt: "2026-05-01"},
		})
		require.NoError(t, err)

		vec := mock.DeterministicVector("the only chunk", 384)
		passages, err := memStore.Search(ctx, vec, 1)
		require.NoError(t, err)
		require.Len(t, passages, 1)
		assert.Equal(t, "the only chunk", passages[0].Text)
		assert.Equal(t, "doc1", passages[0].Metadata["name"])
		assert.Equal(t, "handbook", passages[0].Metadata["category"])
		assert.Equal(t, "2026-05-01", passages[0].Metadata["updated_at"])
		assert.Equal(t, "0", passages[0].Metadata["chunk"])
		assert.NotEmpty(t, passages[0].Metadata["doc_id"])
	})

	t.Run("store rejection fails only the affected document", func(t *testing.T) {
		memStore := memory.NewStore()
		rejecting := &rejectingStore{
			VectorStore: memStore,
			reject:      func(p store.Point) bool { return p.Payload["updated_at"] == "" },
		}
		p := newTestPipeline(t, rejecting)

		report, err := p.Index(ctx, []*core.Document{
			{Content: "good content", Name: "doc1", UpdatedAt: "2026-05-01"},
			{Content: "bad date", Name: "doc2", UpdatedAt: ""},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Indexed)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "doc2", report.Errors[0].Document)
		assert.Contains(t, report.Errors[0].Err.Error(), "datetime")
	})

	t.Run("embedding failure aborts the run", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("connection refused")
		}

		p, err := NewPipeline(memory.NewStore(), embedder, lineSplitter{})
		require.NoError(t, err)
		defer p.Release()

		_, err = p.Index(ctx, []*core.Document{{Content: "body", Name: "doc1"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("no documents is a no-op", func(t *testing.T) {
		p := newTestPipeline(t, memory.NewStore())
		report, err := p.Index(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, report.Chunks)
	})

	t.Run("reindexing is idempotent", func(t *testing.T) {
		memStore := memory.NewStore()
		p := newTestPipeline(t, memStore)

		docs := []*core.Document{{Content: "stable line", Name: "doc1", UpdatedAt: "2026-05-01"}}
		_, err := p.Index(ctx, docs)
		require.NoError(t, err)
		_, err = p.Index(ctx, docs)
		require.NoError(t, err)

		assert.Equal(t, 1, memStore.Len())
	})
}

func TestNewPipelineValidation(t *testing.T) {
	embedder := mock.NewMockEmbedder()

	_, err := NewPipeline(nil, embedder, lineSplitter{})
	assert.Equal(t, ErrStoreRequired, err)

	_, err = NewPipeline(memory.NewStore(), nil, lineSplitter{})
	assert.Equal(t, ErrEmbedderRequired, err)

	_, err = NewPipeline(memory.NewStore(), embedder, nil)
	assert.Equal(t, ErrSplitterRequired, err)

	_, err = NewPipeline(memory.NewStore(), embedder, lineSplitter{}, WithBatchSize(0))
	assert.Error(t, err)
}
