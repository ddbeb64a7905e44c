package storage

import (
	"github.com/aleksaelezovic/carreg/pkg/store"
)

// MemoryStorage implements Storage with plain maps. Bucket lookups are a
// single map access. It is not safe for concurrent use.
type MemoryStorage struct {
	tables [store.TableCount]map[string][][]byte
	closed bool
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{}
	for i := range s.tables {
		s.tables[i] = make(map[string][][]byte)
	}
	return s
}

// Begin starts a new transaction
func (s *MemoryStorage) Begin(writable bool) (store.Transaction, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return &MemoryTransaction{storage: s, writable: writable}, nil
}

// Close releases the stored buckets
func (s *MemoryStorage) Close() error {
	s.closed = true
	for i := range s.tables {
		s.tables[i] = nil
	}
	return nil
}

type pendingAppend struct {
	table store.Table
	key   string
	value []byte
}

// MemoryTransaction buffers appends until Commit
type MemoryTransaction struct {
	storage  *MemoryStorage
	writable bool
	pending  []pendingAppend
	done     bool
}

// Append adds value at the end of the bucket
func (t *MemoryTransaction) Append(table store.Table, key, value []byte) error {
	if t.done {
		return store.ErrTxnDone
	}
	if !t.writable {
		return store.ErrTransactionRO
	}

	t.pending = append(t.pending, pendingAppend{
		table: table,
		key:   string(key),
		value: append([]byte{}, value...),
	})
	return nil
}

// Bucket returns the committed values of a bucket followed by the values
// appended in this transaction. Callers must not modify the returned bytes.
func (t *MemoryTransaction) Bucket(table store.Table, key []byte) ([][]byte, error) {
	if t.done {
		return nil, store.ErrTxnDone
	}

	committed := t.storage.tables[table][string(key)]
	values := make([][]byte, len(committed), len(committed)+len(t.pending))
	copy(values, committed)

	for _, p := range t.pending {
		if p.table == table && p.key == string(key) {
			values = append(values, p.value)
		}
	}
	return values, nil
}

// Commit applies the buffered appends
func (t *MemoryTransaction) Commit() error {
	if t.done {
		return store.ErrTxnDone
	}
	t.done = true

	if t.storage.closed {
		return ErrClosed
	}
	for _, p := range t.pending {
		bucket := t.storage.tables[p.table]
		bucket[p.key] = append(bucket[p.key], p.value)
	}
	t.pending = nil
	return nil
}

// Rollback drops the buffered appends
func (t *MemoryTransaction) Rollback() error {
	t.done = true
	t.pending = nil
	return nil
}
