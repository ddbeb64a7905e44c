package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/aleksaelezovic/carreg/pkg/store"
	badger "github.com/dgraph-io/badger/v4"
)

// seqSize is the width of the per-bucket sequence suffix
const seqSize = 8

// BadgerStorage implements Storage using an in-memory BadgerDB
type BadgerStorage struct {
	db *badger.DB
}

// NewBadgerStorage creates a new BadgerDB-backed storage. Nothing is
// written to disk.
func NewBadgerStorage() (*BadgerStorage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &BadgerStorage{db: db}, nil
}

// Begin starts a new transaction
func (s *BadgerStorage) Begin(writable bool) (store.Transaction, error) {
	txn := s.db.NewTransaction(writable)
	return &BadgerTransaction{
		db:       s.db,
		txn:      txn,
		writable: writable,
	}, nil
}

// Close closes the storage
func (s *BadgerStorage) Close() error {
	return s.db.Close()
}

// BadgerTransaction implements Transaction using BadgerDB.
//
// A bucket entry is stored as table|key|seq -> value, with seq taken from a
// counter kept under TableBucketSeq, so a prefix scan over table|key yields
// the bucket in append order.
//
// Badger caps the size of a single transaction. When an Append would exceed
// it, the writes so far are committed and the transaction continues in a
// fresh badger transaction, so Rollback only discards appends made after the
// last such flush.
type BadgerTransaction struct {
	db       *badger.DB
	txn      *badger.Txn
	writable bool
	done     bool
	flushes  int
}

// Append adds value at the end of the bucket
func (t *BadgerTransaction) Append(table store.Table, key, value []byte) error {
	if t.done {
		return store.ErrTxnDone
	}
	if !t.writable {
		return store.ErrTransactionRO
	}

	seqKey := store.PrefixKey(store.TableBucketSeq, store.PrefixKey(table, key))
	seq, err := t.nextSeq(seqKey)
	if err != nil {
		return err
	}

	entryKey := store.PrefixKey(table, key)
	entryKey = binary.BigEndian.AppendUint64(entryKey, seq)
	if err := t.set(entryKey, append([]byte{}, value...)); err != nil {
		return err
	}

	var next [seqSize]byte
	binary.BigEndian.PutUint64(next[:], seq+1)
	return t.set(seqKey, next[:])
}

// set writes one key, flushing the transaction first when badger reports
// it has grown too big
func (t *BadgerTransaction) set(key, value []byte) error {
	err := t.txn.Set(key, value)
	if !errors.Is(err, badger.ErrTxnTooBig) {
		return err
	}

	if err := t.txn.Commit(); err != nil {
		return fmt.Errorf("failed to flush oversized transaction: %w", err)
	}
	t.flushes++
	t.txn = t.db.NewTransaction(true)
	return t.txn.Set(key, value)
}

// nextSeq reads the next free sequence number of a bucket
func (t *BadgerTransaction) nextSeq(seqKey []byte) (uint64, error) {
	item, err := t.txn.Get(seqKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var seq uint64
	err = item.Value(func(val []byte) error {
		if len(val) != seqSize {
			return fmt.Errorf("corrupt bucket sequence: %d bytes", len(val))
		}
		seq = binary.BigEndian.Uint64(val)
		return nil
	})
	return seq, err
}

// Bucket returns all values appended under key, oldest first
func (t *BadgerTransaction) Bucket(table store.Table, key []byte) ([][]byte, error) {
	if t.done {
		return nil, store.ErrTxnDone
	}

	it := t.scan(store.PrefixKey(table, key))
	defer it.Close()

	var values [][]byte
	for it.Next() {
		value, err := it.Value()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// scan iterates over every entry whose key starts with prefix
func (t *BadgerTransaction) scan(prefix []byte) store.Iterator {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	return &BadgerIterator{
		it:     t.txn.NewIterator(opts),
		prefix: prefix,
	}
}

// Commit commits the transaction
func (t *BadgerTransaction) Commit() error {
	if t.done {
		return store.ErrTxnDone
	}
	t.done = true
	return t.txn.Commit()
}

// Rollback rolls back the transaction
func (t *BadgerTransaction) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.txn.Discard()
	return nil
}

// BadgerIterator implements Iterator using BadgerDB
type BadgerIterator struct {
	it       *badger.Iterator
	prefix   []byte
	started  bool
	hasValue bool
}

// Next advances to the next item
func (i *BadgerIterator) Next() bool {
	if !i.started {
		i.it.Seek(i.prefix)
		i.started = true
	} else {
		i.it.Next()
	}

	i.hasValue = i.it.ValidForPrefix(i.prefix)
	return i.hasValue
}

// Key returns the current key (without the scan prefix)
func (i *BadgerIterator) Key() []byte {
	if !i.hasValue {
		return nil
	}

	key := i.it.Item().KeyCopy(nil)
	return key[len(i.prefix):]
}

// Value returns the current value
func (i *BadgerIterator) Value() ([]byte, error) {
	if !i.hasValue {
		return nil, store.ErrNotFound
	}

	return i.it.Item().ValueCopy(nil)
}

// Close closes the iterator
func (i *BadgerIterator) Close() error {
	i.it.Close()
	return nil
}
