package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// DocumentRepository implements store.Remote on a single JSONB table
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

var _ store.Remote = (*DocumentRepository)(nil)

// Ping checks that the pool can reach the database
func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

const (
	queryGetDocument = `SELECT data FROM documents WHERE path = $1`

	queryReplaceDocument = `
		INSERT INTO documents (path, parent, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()`

	queryMergeDocument = `
		INSERT INTO documents (path, parent, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE
		SET data = documents.data || EXCLUDED.data, updated_at = NOW()`

	queryUpdateDocument = `
		UPDATE documents
		SET data = data || $2, updated_at = NOW()
		WHERE path = $1`

	queryIncrementField = `
		INSERT INTO documents (path, parent, data)
		VALUES ($1, $2, jsonb_build_object($3::text, $4::bigint))
		ON CONFLICT (path) DO UPDATE
		SET data = jsonb_set(
			documents.data,
			ARRAY[$3::text],
			to_jsonb(COALESCE((documents.data->>$3::text)::numeric, 0) + $4::bigint)
		), updated_at = NOW()`

	queryLockPath = `SELECT pg_advisory_xact_lock(hashtext($1))`

	queryListDocuments = `SELECT path, data FROM documents WHERE parent = $1 ORDER BY path`
)

// GetDocument retrieves the document stored at path
func (r *DocumentRepository) GetDocument(ctx context.Context, path string) (store.Document, error) {
	return getDocument(ctx, r.db, path)
}

// SetDocument writes the document at path, replacing or merging top-level fields
func (r *DocumentRepository) SetDocument(ctx context.Context, path string, data store.Document, merge bool) error {
	query := queryReplaceDocument
	if merge {
		query = queryMergeDocument
	}
	return r.withPathLock(ctx, path, func(tx pgx.Tx) error {
		return writeDocument(ctx, tx, query, path, data)
	})
}

// UpdateDocument merges fields into an existing document
func (r *DocumentRepository) UpdateDocument(ctx context.Context, path string, fields store.Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%s: %w", store.ErrMsgEncodeFailed, err)
	}
	return r.withPathLock(ctx, path, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, queryUpdateDocument, path, raw)
		if err != nil {
			return unavailable(ErrMsgFailedToUpdateDocument, err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// IncrementField atomically adds delta to a numeric field
func (r *DocumentRepository) IncrementField(ctx context.Context, path, field string, delta int64) error {
	parent, _ := store.Split(path)
	return r.withPathLock(ctx, path, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryIncrementField, path, parent, field, delta); err != nil {
			return unavailable(ErrMsgFailedToIncrementField, err)
		}
		return nil
	})
}

// RunTransaction serializes read-modify-write cycles on path. Every other
// write takes the same path lock, so none of them can land between the read and the replace.
func (r *DocumentRepository) RunTransaction(ctx context.Context, path string, fn func(current store.Document) (store.Document, error)) error {
	return r.withPathLock(ctx, path, func(tx pgx.Tx) error {
		current, err := getDocument(ctx, tx, path)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		return writeDocument(ctx, tx, queryReplaceDocument, path, next)
	})
}

// withPathLock runs fn in a transaction holding a transaction-scoped advisory
// lock on path, which also covers documents that do not exist yet
func (r *DocumentRepository) withPathLock(ctx context.Context, path string, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return unavailable(ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	if _, err := tx.Exec(ctx, queryLockPath, path); err != nil {
		return unavailable(ErrMsgFailedToLockDocument, err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return unavailable(ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// ListDocuments returns the direct children of collection keyed by document id
func (r *DocumentRepository) ListDocuments(ctx context.Context, collection string) (map[string]store.Document, error) {
	rows, err := r.db.Query(ctx, queryListDocuments, collection)
	if err != nil {
		return nil, unavailable(ErrMsgFailedToListDocuments, err)
	}
	defer rows.Close()

	docs := make(map[string]store.Document)
	for rows.Next() {
		var path string
		var raw []byte
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, unavailable(ErrMsgFailedToListDocuments, err)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		_, id := store.Split(path)
		docs[id] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(ErrMsgFailedToListDocuments, err)
	}
	return docs, nil
}

// querier is satisfied by both the pool and an open transaction
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func getDocument(ctx context.Context, q querier, path string) (store.Document, error) {
	var raw []byte
	if err := q.QueryRow(ctx, queryGetDocument, path).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, unavailable(ErrMsgFailedToGetDocument, err)
	}
	return decodeDocument(raw)
}

func writeDocument(ctx context.Context, q querier, query, path string, data store.Document) error {
	if data == nil {
		data = store.Document{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", store.ErrMsgEncodeFailed, err)
	}
	parent, _ := store.Split(path)
	if _, err := q.Exec(ctx, query, path, parent, raw); err != nil {
		return unavailable(ErrMsgFailedToWriteDocument, err)
	}
	return nil
}

func decodeDocument(raw []byte) (store.Document, error) {
	doc := store.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", store.ErrMsgDecodeFailed, err)
	}
	return doc, nil
}

// unavailable marks driver failures so the tiered store can fall back
func unavailable(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, msg, err)
}

// rollback is deferred after Begin; once Commit succeeds it is a no-op
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
	}
}
