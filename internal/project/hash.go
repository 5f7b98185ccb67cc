package project

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Digest is a sha256 sum, the same shape as source.File.Hash.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

func (d Digest) IsZero() bool { return d == Digest{} }

// UnitHasher folds the namespace and the module digests of one build unit,
// in load order, into a single digest. Same inputs in the same order give
// the same result.
type UnitHasher struct {
	h hash.Hash
	n int
}

func NewUnitHasher(namespace string) *UnitHasher {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	return &UnitHasher{h: h}
}

func (u *UnitHasher) Add(d Digest) {
	u.h.Write(d[:])
	u.n++
}

// Modules is how many digests were added.
func (u *UnitHasher) Modules() int { return u.n }

func (u *UnitHasher) Sum() (out Digest) {
	copy(out[:], u.h.Sum(nil))
	return out
}
