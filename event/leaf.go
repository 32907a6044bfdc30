package event

import (
	"crypto/sha256"
	"encoding/binary"
)

// LeafSize is the length of a leaf hash in bytes.
const LeafSize = 32

// Leaf is the fixed-length hash representing one event in a Merkle batch.
type Leaf = [LeafSize]byte

// NewLeaf computes the leaf hash for an event.
//
// The hash is SHA-256 over a length-prefixed concatenation of the
// identifying fields:
//
//	varint(len) || companyID
//	varint(len) || eventType
//	varint(len) || tagID
//	timestamp   (8 bytes, big-endian)
//	SHA256(payload)
//
// Length prefixes make the encoding injective: two field sets that differ
// anywhere produce different preimages. The payload participates through
// its digest, so content tampering changes the leaf.
func NewLeaf(e *Event) (Leaf, error) {
	var leaf Leaf
	if err := e.Validate(); err != nil {
		return leaf, err
	}

	h := sha256.New()
	var scratch [binary.MaxVarintLen64]byte

	writeField := func(s string) {
		n := binary.PutUvarint(scratch[:], uint64(len(s)))
		h.Write(scratch[:n])
		h.Write([]byte(s))
	}

	writeField(e.CompanyID)
	writeField(e.EventType)
	writeField(e.TagID)

	binary.BigEndian.PutUint64(scratch[:8], uint64(e.Timestamp))
	h.Write(scratch[:8])

	payloadDigest := sha256.Sum256(e.Payload)
	h.Write(payloadDigest[:])

	copy(leaf[:], h.Sum(nil))
	return leaf, nil
}
