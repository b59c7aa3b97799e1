package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

// ConceptStore implements storage.ConceptStore for BadgerDB.
type ConceptStore struct {
	backend *Backend
}

var _ storage.ConceptStore = (*ConceptStore)(nil)

// NewConceptStore creates a new ConceptStore.
func NewConceptStore(backend *Backend) (storage.ConceptStore, error) {
	return &ConceptStore{backend: backend}, nil
}

// Close releases resources. ConceptStore has no resources to release beyond
// the shared backend, which the owner closes.
func (s *ConceptStore) Close() error {
	return nil
}

// GetExpansion retrieves the cached expansion for a term.
func (s *ConceptStore) GetExpansion(ctx context.Context, term string) (*core.ConceptExpansion, error) {
	var result *core.ConceptExpansion
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeConceptKey(core.NormalizeTerm(term)))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalConceptExpansion(val)
			return err
		})
	}, false)
	return result, err
}

// PutExpansion caches an expansion keyed by its normalized term.
func (s *ConceptStore) PutExpansion(ctx context.Context, expansion *core.ConceptExpansion) error {
	if err := core.ValidateExpansion(expansion); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeConceptKey(core.NormalizeTerm(expansion.Term))
		if err := tx.Set(key, storage.MarshalConceptExpansion(expansion)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
