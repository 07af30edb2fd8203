package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EcoQuest_Go/internal/store"
)

func TestDocumentRepository_GetMissing(t *testing.T) {
	repo, prefix := requireDB(t)

	_, err := repo.GetDocument(context.Background(), prefix+"/users/nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentRepository_SetAndMerge(t *testing.T) {
	repo, prefix := requireDB(t)
	ctx := context.Background()
	path := store.Join(prefix, "users", "u1")

	require.NoError(t, repo.SetDocument(ctx, path, store.Document{"level": 1, "xp": 10}, false))
	require.NoError(t, repo.SetDocument(ctx, path, store.Document{"title": "Novato"}, true))

	doc, err := repo.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.EqualValues(t, 1, doc.Int("level"))
	assert.EqualValues(t, 10, doc.Int("xp"))
	assert.Equal(t, "Novato", doc["title"])

	require.NoError(t, repo.SetDocument(ctx, path, store.Document{"xp": 5}, false))
	doc, err = repo.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.NotContains(t, doc, "level", "Replace should drop unspecified fields")
}

func TestDocumentRepository_UpdateMissing(t *testing.T) {
	repo, prefix := requireDB(t)

	err := repo.UpdateDocument(context.Background(), store.Join(prefix, "users", "ghost"), store.Document{"xp": 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentRepository_IncrementField(t *testing.T) {
	repo, prefix := requireDB(t)
	ctx := context.Background()
	path := store.Join(prefix, "users", "u2")

	require.NoError(t, repo.IncrementField(ctx, path, "totalRecycled", 2))
	require.NoError(t, repo.IncrementField(ctx, path, "totalRecycled", 3))

	doc, err := repo.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.EqualValues(t, 5, doc.Int("totalRecycled"))
}

func TestDocumentRepository_ConcurrentTransactions(t *testing.T) {
	repo, prefix := requireDB(t)
	ctx := context.Background()
	path := store.Join(prefix, "users", "counter")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.RunTransaction(ctx, path, func(current store.Document) (store.Document, error) {
				n := current.Int("xp")
				return store.Document{"xp": n + 1}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := repo.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.EqualValues(t, 20, doc.Int("xp"), "No increments should be lost")
}

func TestDocumentRepository_IncrementDuringTransactions(t *testing.T) {
	repo, prefix := requireDB(t)
	ctx := context.Background()
	path := store.Join(prefix, "users", "mixed")
	const rounds = 20

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementField(ctx, path, "totalRecycled", 1))
		}()
		go func() {
			defer wg.Done()
			err := repo.RunTransaction(ctx, path, func(current store.Document) (store.Document, error) {
				next := store.Document{}
				for k, v := range current {
					next[k] = v
				}
				next["xp"] = current.Int("xp") + 1
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := repo.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.EqualValues(t, rounds, doc.Int("xp"))
	assert.EqualValues(t, rounds, doc.Int("totalRecycled"), "Transactions must not overwrite concurrent increments")
}

func TestDocumentRepository_TransactionAbort(t *testing.T) {
	repo, prefix := requireDB(t)
	ctx := context.Background()
	path := store.Join(prefix, "users", "abort")
	errBoom := errors.New("boom")

	err := repo.RunTransaction(ctx, path, func(current store.Document) (store.Document, error) {
		assert.Nil(t, current)
		return nil, errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = repo.GetDocument(ctx, path)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentRepository_ListDocuments(t *testing.T) {
	repo, prefix := requireDB(t)
	ctx := context.Background()
	collection := store.Join(prefix, "users", "u1", "dailyMissions")

	require.NoError(t, repo.SetDocument(ctx, store.Join(collection, "2024-01-01"), store.Document{"totalCount": 3}, false))
	require.NoError(t, repo.SetDocument(ctx, store.Join(collection, "2024-01-02"), store.Document{"totalCount": 4}, false))

	docs, err := repo.ListDocuments(ctx, collection)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.EqualValues(t, 4, docs["2024-01-02"].Int("totalCount"))
}
