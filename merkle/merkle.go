// Package merkle builds the batch root anchored on-chain each cycle.
//
// The tree policy is fixed: leaves combine pairwise as SHA256(left || right),
// and a level with an odd node count duplicates its last node before
// combining. A batch of one leaf yields root == leaf.
package merkle

import (
	"crypto/sha256"

	"github.com/anchorgrid/libanchor-go/event"
)

// Root computes the Merkle root over the ordered leaves.
//
// The result is deterministic and order-sensitive: swapping two distinct
// leaves changes the root. Returns ErrNoLeaves for an empty batch.
func Root(leaves []event.Leaf) (event.Leaf, error) {
	var root event.Leaf
	if len(leaves) == 0 {
		return root, ErrNoLeaves
	}

	level := make([]event.Leaf, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]event.Leaf, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = hashPair(level[i], level[i+1])
		}
		level = next
	}

	return level[0], nil
}

// hashPair computes SHA256(left || right).
func hashPair(left, right event.Leaf) event.Leaf {
	var combined [2 * event.LeafSize]byte
	copy(combined[:event.LeafSize], left[:])
	copy(combined[event.LeafSize:], right[:])
	return sha256.Sum256(combined[:])
}
