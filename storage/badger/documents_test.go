package badger

import (
	"context"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestPutAndGetDocument(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	docs, err := repo.PutDocuments(ctx, &core.Document{
		Content: "Our sales team has 12 members.",
		Name:    "doc1",
		Summary: "team size",
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotZero(t, docs[0].Id)
	assert.False(t, docs[0].FetchedAt.IsZero())

	got, err := repo.GetDocument(ctx, docs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "doc1", got.Name)
	assert.Equal(t, "Our sales team has 12 members.", got.Content)
}

func TestGetDocumentNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetDocument(context.Background(), 12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutOverwritesById(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id := core.IDFromContent("stable")
	_, err := repo.PutDocuments(ctx, &core.Document{Id: id, Content: "stable", Name: "old-name"})
	require.NoError(t, err)
	_, err = repo.PutDocuments(ctx, &core.Document{Id: id, Content: "stable", Name: "new-name"})
	require.NoError(t, err)

	docs, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "new-name", docs[0].Name)

	// Old name index entry must be gone.
	_, err = repo.FindDocumentByName(ctx, "old-name")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := repo.FindDocumentByName(ctx, "new-name")
	require.NoError(t, err)
	assert.Equal(t, id, got.Id)
}

func TestGetDocumentsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	docs, err := repo.PutDocuments(ctx,
		&core.Document{Content: "first", Name: "doc1"},
		&core.Document{Content: "second", Name: "doc2"},
	)
	require.NoError(t, err)

	got, err := repo.GetDocuments(ctx, docs[0].Id, 99999, docs[1].Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListDocumentsOrderedById(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.PutDocuments(ctx,
		&core.Document{Content: "alpha", Name: "a"},
		&core.Document{Content: "beta", Name: "b"},
		&core.Document{Content: "gamma", Name: "c"},
	)
	require.NoError(t, err)

	docs, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i := 1; i < len(docs); i++ {
		assert.Less(t, docs[i-1].Id, docs[i].Id)
	}
}

func TestDeleteDocuments(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	docs, err := repo.PutDocuments(ctx, &core.Document{Content: "body", Name: "doc1"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteDocuments(ctx, docs[0].Id))

	_, err = repo.GetDocument(ctx, docs[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.FindDocumentByName(ctx, "doc1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteDocuments(ctx, docs[0].Id), storage.ErrNotFound)
}
