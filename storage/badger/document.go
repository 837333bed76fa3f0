package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/storage"
)

// maxConflictRetries bounds how often a store is retried when a concurrent
// writer touched the same digest.
const maxConflictRetries = 5

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend

	// Guards lastStamp so stored timestamps are strictly increasing
	mu        sync.Mutex
	lastStamp time.Time
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *DocumentRepository) Close() error {
	return nil
}

// StoreDocument stores body under its digest, inserting Version 1 or bumping
// the version of an existing entry.
func (r *DocumentRepository) StoreDocument(ctx context.Context, url, body, title string, metadata map[string]string) (*core.Document, error) {
	digest := core.DigestFromContent(body)

	var (
		stored *core.Document
		err    error
	)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		stored, err = r.storeOnce(digest, url, body, title, metadata)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
		r.backend.logger.Debug("store conflict, retrying", "digest", digest.Short(), "attempt", attempt+1)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: store %s: %w", storage.ErrStorageFailure, digest.Short(), err)
	}
	return stored, nil
}

func (r *DocumentRepository) storeOnce(digest core.Digest, url, body, title string, metadata map[string]string) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(digest)
		existing, err := readDocument(tx, key)
		if err != nil {
			return err
		}

		now := r.nextStamp()
		if existing == nil {
			doc = &core.Document{
				Digest:  digest,
				Body:    body,
				Version: 1,
			}
		} else {
			// Drop the old recency entry before re-indexing under the new time
			if err := tx.Delete(makeDocumentDateKey(existing.Timestamp, digest)); err != nil {
				return err
			}
			doc = existing
			doc.Version++
		}
		doc.URL = url
		doc.Title = title
		doc.Metadata = copyMetadata(metadata)
		doc.Timestamp = now

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		if err := tx.Set(makeDocumentDateKey(now, digest), storage.MarshalDigest(digest)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// nextStamp returns the current time at microsecond precision, nudged forward
// when the clock has not advanced since the previous store.
func (r *DocumentRepository) nextStamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(r.lastStamp) {
		now = r.lastStamp.Add(time.Microsecond)
	}
	r.lastStamp = now
	return now
}

// GetDocument retrieves a single document by digest.
func (r *DocumentRepository) GetDocument(ctx context.Context, digest core.Digest) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(digest))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListRecent retrieves up to limit documents, newest first.
func (r *DocumentRepository) ListRecent(ctx context.Context, limit int) ([]*core.Document, error) {
	return r.scanRecent(limit, func(*core.Document) bool { return true })
}

// SearchText retrieves up to limit documents whose body or title contains
// query, ignoring case, newest first.
func (r *DocumentRepository) SearchText(ctx context.Context, query string, limit int) ([]*core.Document, error) {
	needle := strings.ToLower(query)
	return r.scanRecent(limit, func(doc *core.Document) bool {
		return strings.Contains(strings.ToLower(doc.Body), needle) ||
			strings.Contains(strings.ToLower(doc.Title), needle)
	})
}

// scanRecent walks the recency index from newest to oldest, collecting up to
// limit documents accepted by match.
func (r *DocumentRepository) scanRecent(limit int, match func(*core.Document) bool) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent documents first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(documentDatePrefix)
		for iter.Seek(makeDocumentDateSeekKey()); iter.Valid() && len(results) < limit; iter.Next() {
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}

			var digest core.Digest
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				digest, err = storage.UnmarshalDigest(val)
				return err
			}); err != nil {
				return err
			}

			doc, err := readDocument(tx, makeDocumentKey(digest))
			if err != nil {
				return err
			}
			if doc != nil && match(doc) {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: scan: %w", storage.ErrStorageFailure, err)
	}
	return results, nil
}

// CountDocuments counts stored digests.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteDocument always fails: stored versions are permanent.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, digest core.Digest) error {
	return fmt.Errorf("%w: %s", storage.ErrDeletionUnsupported, digest.Short())
}

// readDocument reads a document, returning nil when the key is absent.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}

func copyMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
