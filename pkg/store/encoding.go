package store

import (
	"github.com/aleksaelezovic/carreg/pkg/keys"
)

// KeyEncoder turns a subset key into the byte key a bucket is stored under
type KeyEncoder interface {
	// EncodeKey encodes a subset key. Equal keys must encode to equal bytes
	// and no encoded key may be a proper prefix of another.
	EncodeKey(key keys.SubsetKey) []byte
}
