// Package treehash provides the hashing primitives used to find
// structurally identical subtrees when diffing two revisions of a tree.
// It is agnostic to the node representation: callers feed it kind tags,
// labels and child hashes.
package treehash

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
)

type Hash [sha256.Size]byte

// Xor folds another hash into this one. Xor is commutative, which makes
// it the combiner for unordered sets: the result does not depend on
// iteration order.
func (h *Hash) Xor(other Hash) {
	for i, b := range other {
		h[i] ^= b
	}
}

func (h Hash) IsZero() bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}

type Hasher struct {
	hasher hash.Hash
}

// New returns a hasher seeded with a node kind tag.
func New(kind uint8) Hasher {
	h := Hasher{hasher: sha256.New()}
	h.hasher.Write([]byte{kind})
	return h
}

func (h *Hasher) WriteString(s string) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(len(s)))
	h.hasher.Write(buf[:])
	h.hasher.Write([]byte(s))
}

// WriteChild mixes in an ordered child. The role tag keeps a child in one
// container from colliding with the same child in another.
func (h *Hasher) WriteChild(role uint8, child Hash) {
	h.hasher.Write([]byte{role})
	h.hasher.Write(child[:])
}

// WriteSet mixes in the combined hash of an unordered child set.
func (h *Hasher) WriteSet(role uint8, combined Hash) {
	h.hasher.Write([]byte{role, 0xff})
	h.hasher.Write(combined[:])
}

func (h *Hasher) Sum() (result Hash) {
	_ = h.hasher.Sum(result[:0])
	return
}
