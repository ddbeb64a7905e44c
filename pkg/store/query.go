package store

import (
	"fmt"

	"github.com/aleksaelezovic/carreg/pkg/keys"
)

// Get returns the vehicle ids stored under manufacturer, model and color,
// in insertion order.
//
// Any argument may be empty or blank, which makes that dimension a
// wildcard. Non-blank values are matched exactly as given and are not
// trimmed. No combination of arguments is invalid; an error is only
// returned when the storage backend fails. The returned slice is owned by
// the caller.
func (r *CarRegistry) Get(manufacturer, model, color string) ([]string, error) {
	key := keys.QueryKey(manufacturer, model, color)

	ids, err := r.lookup(key)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		r.metrics.gets.WithLabelValues(resultMiss).Inc()
	} else {
		r.metrics.gets.WithLabelValues(resultHit).Inc()
	}
	return ids, nil
}

// lookup reads a single bucket
func (r *CarRegistry) lookup(key keys.SubsetKey) ([]string, error) {
	txn, err := r.storage.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback()

	values, err := txn.Bucket(TableBuckets, r.encoder.EncodeKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read bucket %s: %w", key, err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		ids = append(ids, string(v))
	}
	return ids, nil
}
