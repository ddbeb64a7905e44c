package store

import (
	"fmt"
	"log/slog"

	"github.com/aleksaelezovic/carreg/pkg/keys"
	"github.com/prometheus/client_golang/prometheus"
)

// Vehicle is one registry record
type Vehicle struct {
	Manufacturer string
	Model        string
	Color        string
	ID           string
}

// CarRegistry indexes vehicle ids under every generalization of their
// (manufacturer, model, color) triple so that any combination of known
// dimensions resolves to a single bucket.
//
// A CarRegistry is not safe for concurrent use; callers must serialize
// access to Put, PutBatch and Get.
type CarRegistry struct {
	storage Storage
	encoder KeyEncoder
	logger  *slog.Logger
	metrics *registryMetrics

	// Encoded subset keys per literal triple, never evicted
	subsets map[keys.Triple][][]byte
}

// Option configures a CarRegistry
type Option func(*CarRegistry)

// WithLogger sets the logger used for insert diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(r *CarRegistry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics registers the registry collectors on reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *CarRegistry) {
		r.metrics = newRegistryMetrics(reg)
	}
}

// NewCarRegistry creates a new registry on top of storage
func NewCarRegistry(storage Storage, encoder KeyEncoder, opts ...Option) *CarRegistry {
	r := &CarRegistry{
		storage: storage,
		encoder: encoder,
		logger:  slog.New(slog.DiscardHandler),
		subsets: make(map[keys.Triple][][]byte),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = newRegistryMetrics(nil)
	}
	return r
}

// Close closes the registry storage
func (r *CarRegistry) Close() error {
	return r.storage.Close()
}

// Put adds a vehicle id under manufacturer, model and color.
//
// All four values are trimmed of surrounding white space before use. A value
// that is empty or blank is rejected with an *InvalidArgumentError naming the
// first offending field, checked in argument order, and nothing is stored.
func (r *CarRegistry) Put(manufacturer, model, color, vehicleID string) error {
	return r.PutBatch([]Vehicle{{
		Manufacturer: manufacturer,
		Model:        model,
		Color:        color,
		ID:           vehicleID,
	}})
}

// PutBatch adds several vehicles in one transaction. Every record is
// validated before any bucket is written; the first invalid record aborts
// the whole batch.
//
// Backends with a bounded transaction size, such as badger, flush a batch
// that outgrows the limit in several commits. A storage failure after such a
// flush leaves the vehicles written before it in place; all-or-nothing
// holds only for batches within the limit.
func (r *CarRegistry) PutBatch(vehicles []Vehicle) error {
	normalized := make([]Vehicle, 0, len(vehicles))
	for i, v := range vehicles {
		n, err := normalizeVehicle(v)
		if err != nil {
			r.metrics.puts.WithLabelValues(resultInvalid).Inc()
			r.logger.Warn("rejected vehicle", "index", i, "error", err)
			return err
		}
		normalized = append(normalized, n)
	}

	txn, err := r.storage.Begin(true)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback()

	for _, v := range normalized {
		if err := r.putInTxn(txn, v); err != nil {
			return err
		}
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit vehicles: %w", err)
	}

	r.metrics.puts.WithLabelValues(resultOK).Add(float64(len(normalized)))
	r.metrics.appends.Add(float64(len(normalized) * keys.SubsetCount))
	return nil
}

// putInTxn appends the vehicle id to all of its subset buckets
func (r *CarRegistry) putInTxn(txn Transaction, v Vehicle) error {
	triple := keys.NewTriple(v.Manufacturer, v.Model, v.Color)
	encoded, cached := r.subsetKeys(triple)

	r.logger.Debug("indexing vehicle",
		"triple", triple.String(),
		"id", v.ID,
		"keys", len(encoded),
		"cached", cached)

	value := []byte(v.ID)
	for _, key := range encoded {
		if err := txn.Append(TableBuckets, key, value); err != nil {
			return fmt.Errorf("failed to append %q to bucket: %w", v.ID, err)
		}
	}
	return nil
}

// subsetKeys returns the encoded subset keys of triple, computing and
// caching them on first use
func (r *CarRegistry) subsetKeys(triple keys.Triple) ([][]byte, bool) {
	if encoded, ok := r.subsets[triple]; ok {
		return encoded, true
	}

	subsets := keys.Subsets(triple)
	encoded := make([][]byte, 0, len(subsets))
	for _, k := range subsets {
		encoded = append(encoded, r.encoder.EncodeKey(k))
	}

	r.subsets[triple] = encoded
	r.metrics.cacheEntries.Set(float64(len(r.subsets)))
	return encoded, false
}

// Len returns the number of vehicle ids inserted so far
func (r *CarRegistry) Len() (int, error) {
	ids, err := r.lookup(keys.QueryKey("", "", ""))
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func normalizeVehicle(v Vehicle) (Vehicle, error) {
	var err error
	if v.Manufacturer, err = checkNotBlank(FieldManufacturer, v.Manufacturer); err != nil {
		return Vehicle{}, err
	}
	if v.Model, err = checkNotBlank(FieldModel, v.Model); err != nil {
		return Vehicle{}, err
	}
	if v.Color, err = checkNotBlank(FieldColor, v.Color); err != nil {
		return Vehicle{}, err
	}
	if v.ID, err = checkNotBlank(FieldVehicleID, v.ID); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}
