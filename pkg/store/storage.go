package store

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrTransactionRO = errors.New("transaction is read-only")
	ErrTxnDone       = errors.New("transaction already finished")
)

// Storage is the interface for the underlying bucket store
type Storage interface {
	// Begin starts a new transaction
	Begin(writable bool) (Transaction, error)

	// Close closes the storage
	Close() error
}

// Transaction groups bucket writes so they become visible together on Commit
type Transaction interface {
	// Append adds value to the end of the bucket named by key
	Append(table Table, key, value []byte) error

	// Bucket returns the values of a bucket in append order.
	// A missing bucket yields an empty result, not an error.
	Bucket(table Table, key []byte) ([][]byte, error)

	// Commit commits the transaction
	Commit() error

	// Rollback discards the transaction. Calling it after Commit is a no-op.
	Rollback() error
}

// Iterator iterates over key-value pairs
type Iterator interface {
	// Next advances to the next item
	Next() bool

	// Key returns the current key
	Key() []byte

	// Value returns the current value
	Value() ([]byte, error)

	// Close closes the iterator
	Close() error
}

// Table represents a logical table/column family in the storage
type Table byte

const (
	// Subset key -> ordered vehicle ids
	TableBuckets Table = iota

	// Subset key -> next sequence number inside the bucket
	TableBucketSeq

	// Total number of tables
	TableCount
)

func (t Table) String() string {
	switch t {
	case TableBuckets:
		return "buckets"
	case TableBucketSeq:
		return "bucket_seq"
	default:
		return "unknown"
	}
}

// TablePrefix returns a byte prefix for a table to namespace keys
func TablePrefix(table Table) []byte {
	return []byte{byte(table)}
}

// PrefixKey adds a table prefix to a key
func PrefixKey(table Table, key []byte) []byte {
	prefix := TablePrefix(table)
	result := make([]byte, len(prefix)+len(key))
	copy(result, prefix)
	copy(result[len(prefix):], key)
	return result
}
