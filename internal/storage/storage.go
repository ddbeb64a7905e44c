package storage

import (
	"errors"
	"fmt"

	"github.com/aleksaelezovic/carreg/pkg/store"
)

// ErrClosed is returned when a closed storage is used
var ErrClosed = errors.New("storage is closed")

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Open creates the storage backend with the given name
func Open(backend string) (store.Storage, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStorage(), nil
	case BackendBadger:
		s, err := NewBadgerStorage()
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
