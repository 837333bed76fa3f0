package badger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/storage"
)

// OutputRepository implements storage.OutputRepository for BadgerDB.
type OutputRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.OutputRepository = (*OutputRepository)(nil)

// NewOutputRepository creates a new OutputRepository.
func NewOutputRepository(backend *Backend) (*OutputRepository, error) {
	idSeq, err := backend.GetSequence(outputIDSeq)
	if err != nil {
		return nil, err
	}

	return &OutputRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *OutputRepository) Close() error {
	return r.idSeq.Release()
}

// AddOutput stores an output under its source digest.
func (r *OutputRepository) AddOutput(ctx context.Context, output *core.Output) (*core.Output, error) {
	if err := core.ValidateOutput(output); err != nil {
		return nil, err
	}

	nextID, err := r.idSeq.Next()
	if err != nil {
		return nil, fmt.Errorf("%w: output id: %w", storage.ErrStorageFailure, err)
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if nextID == 0 {
		nextID, err = r.idSeq.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: output id: %w", storage.ErrStorageFailure, err)
		}
	}

	stored := *output
	stored.ID = nextID
	stored.Metadata = copyMetadata(output.Metadata)
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeOutputKey(stored.Digest, stored.ID)
		if err := tx.Set(key, storage.MarshalOutput(&stored)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, fmt.Errorf("%w: output: %w", storage.ErrStorageFailure, err)
	}
	return &stored, nil
}

// GetOutputs retrieves every output for digest, newest first.
func (r *OutputRepository) GetOutputs(ctx context.Context, digest core.Digest) ([]*core.Output, error) {
	var results []*core.Output
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makeOutputPrefix(digest)
		for iter.Seek(makeOutputSeekKey(digest)); iter.Valid(); iter.Next() {
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}
			var output *core.Output
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				output, err = storage.UnmarshalOutput(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, output)
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: outputs: %w", storage.ErrStorageFailure, err)
	}
	return results, nil
}
