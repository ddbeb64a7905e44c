package encoding

import (
	"encoding/binary"

	"github.com/aleksaelezovic/carreg/pkg/keys"
	"github.com/zeebo/xxh3"
)

const (
	// Maximum size for inline values (slot minus kind and length bytes)
	MaxInlineSize = 15

	// Encoded slot size (kind byte + 16 bytes for 128-bit hash or inline data)
	EncodedSlotSize = 17

	// Encoded key size (one slot per dimension)
	EncodedKeySize = keys.Dimensions * EncodedSlotSize
)

// SlotKind tells how a dimension is stored inside an encoded slot
type SlotKind byte

const (
	SlotWildcard SlotKind = iota
	SlotInline
	SlotHashed
)

// EncodedSlot represents one dimension encoded as a kind byte followed by 16 bytes of data
type EncodedSlot [EncodedSlotSize]byte

// Kind returns how the slot was encoded
func (s EncodedSlot) Kind() SlotKind {
	return SlotKind(s[0])
}

// KeyEncoder encodes subset keys into fixed-width byte keys
type KeyEncoder struct{}

// NewKeyEncoder creates a new key encoder
func NewKeyEncoder() *KeyEncoder {
	return &KeyEncoder{}
}

// Hash128 computes a 128-bit xxhash3 hash of the input string
func (e *KeyEncoder) Hash128(s string) [16]byte {
	hash := xxh3.HashString128(s)
	var result [16]byte
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// EncodeSlot encodes one dimension of a key.
// Values longer than MaxInlineSize are stored as their xxh3-128 hash, so
// distinct long values are kept apart only with overwhelming probability.
func (e *KeyEncoder) EncodeSlot(value string, wildcard bool) EncodedSlot {
	var encoded EncodedSlot

	if wildcard {
		encoded[0] = byte(SlotWildcard)
		return encoded
	}

	if len(value) <= MaxInlineSize {
		// Length byte keeps values with trailing NULs distinct
		encoded[0] = byte(SlotInline)
		encoded[1] = byte(len(value))
		copy(encoded[2:], value)
		return encoded
	}

	encoded[0] = byte(SlotHashed)
	hash := e.Hash128(value)
	copy(encoded[1:], hash[:])
	return encoded
}

// EncodeKey encodes a subset key as its three slots in dimension order.
// Every key has the same length, so no key is a prefix of another.
func (e *KeyEncoder) EncodeKey(key keys.SubsetKey) []byte {
	result := make([]byte, 0, EncodedKeySize)
	for d := keys.Manufacturer; d <= keys.Color; d++ {
		slot := e.EncodeSlot(key.Values[d], key.IsWildcard(d))
		result = append(result, slot[:]...)
	}
	return result
}
