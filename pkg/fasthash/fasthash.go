// Package fasthash is the thin, allocation-conscious façade other packages
// in this module use to hash keys. It used to carry its own inline xxHash
// port; it now delegates to pkg/spookyhash so the whole module exercises one
// hash implementation and one set of digest guarantees (spec §4, §9).
package fasthash

import "github.com/baxromumarov/spookyhash/pkg/spookyhash"

// defaultSeed1/defaultSeed2 are the seed pair used by the unseeded Sum64
// entry points: spookyhash's own SC constant, per SPEC_FULL.md's consumer
// API (§6 EXPANSION).
const (
	defaultSeed1 = spookyhash.SC
	defaultSeed2 = spookyhash.SC
)

// Sum64 computes the 64-bit SpookyHash V2 digest of data with the default
// seed pair. Safe for concurrent use; allocates nothing beyond what
// spookyhash itself needs for inputs at or above the long-path threshold.
func Sum64(data []byte) uint64 {
	return spookyhash.Hash64(data, defaultSeed1)
}

// Sum64String hashes a string with the default seed pair; it returns the
// same value as Sum64([]byte(s)).
func Sum64String(s string) uint64 {
	h1, _ := spookyhash.HashString(s, defaultSeed1, defaultSeed2)
	return h1
}

// Seed allows creating a seeded hasher for better bucket distribution, e.g.
// across shards of a consistent-hash ring (pkg/consistent).
type Seed uint64

// Sum64 computes a seeded digest. Distinct seeds produce independent
// digest spaces for the same input, which is what lets a ring build several
// virtual-node hashes from one key.
func (seed Seed) Sum64(data []byte) uint64 {
	return spookyhash.Hash64(data, uint64(seed))
}

// Sum64String is the string form of Seed.Sum64.
func (seed Seed) Sum64String(s string) uint64 {
	h1, _ := spookyhash.HashString(s, uint64(seed), uint64(seed))
	return h1
}
