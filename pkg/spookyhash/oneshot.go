package spookyhash

import "github.com/baxromumarov/spookyhash/pkg/pool"

// Hash128 hashes data with the given seed pair and returns the two 64-bit
// halves of the 128-bit digest.
//
// A nil data is treated as the null/absent byte range from spec §4.2 and
// returns (0, 0) without inspecting the seeds. A non-nil, zero-length slice
// is a real (empty) input and is hashed by the short path like any other
// short message — its digest is fixed and non-zero in general.
func Hash128(data []byte, seed1, seed2 uint64) (uint64, uint64) {
	if data == nil {
		return 0, 0
	}
	if len(data) < BufSize {
		return shortHash(data, seed1, seed2)
	}
	return longHash(data, seed1, seed2)
}

// Hash64 hashes data with a single seed used for both halves, returning the
// low 64 bits of the digest (hash128(data, seed, seed).h1).
func Hash64(data []byte, seed uint64) uint64 {
	h1, _ := Hash128(data, seed, seed)
	return h1
}

// Hash32 returns the low 32 bits of Hash64.
func Hash32(data []byte, seed uint32) uint32 {
	return uint32(Hash64(data, uint64(seed)))
}

// HashString hashes a string with the given seed pair. Strings in Go are
// immutable, so this is the external string-convenience collaborator from
// spec §4/§9, implemented as a trivial conversion into the core API.
func HashString(s string, seed1, seed2 uint64) (uint64, uint64) {
	return Hash128([]byte(s), seed1, seed2)
}

// shortHash implements spec §4.2.1 for inputs shorter than BufSize.
func shortHash(in []byte, seed1, seed2 uint64) (uint64, uint64) {
	a, b := seed1, seed2
	c, d := SC, SC

	length := len(in)
	rem := length % 32

	if length >= 16 {
		for l := length; l >= 32; l -= 32 {
			c += le64(in)
			d += le64(in[8:])
			shortMix(&a, &b, &c, &d)
			a += le64(in[16:])
			b += le64(in[24:])
			in = in[32:]
		}
		if rem >= 16 {
			c += le64(in)
			d += le64(in[8:])
			shortMix(&a, &b, &c, &d)
			in = in[16:]
			rem -= 16
		}
	}

	d += uint64(length) << 56

	switch rem {
	case 15:
		d += uint64(in[14]) << 48
		fallthrough
	case 14:
		d += uint64(in[13]) << 40
		fallthrough
	case 13:
		d += uint64(in[12]) << 32
		fallthrough
	case 12:
		d += le32(in[8:])
		c += le64(in)
	case 11:
		d += uint64(in[10]) << 16
		fallthrough
	case 10:
		d += uint64(in[9]) << 8
		fallthrough
	case 9:
		d += uint64(in[8])
		fallthrough
	case 8:
		c += le64(in)
	case 7:
		c += uint64(in[6]) << 48
		fallthrough
	case 6:
		c += uint64(in[5]) << 40
		fallthrough
	case 5:
		c += uint64(in[4]) << 32
		fallthrough
	case 4:
		c += le32(in)
	case 3:
		c += uint64(in[2]) << 16
		fallthrough
	case 2:
		c += uint64(in[1]) << 8
		fallthrough
	case 1:
		c += uint64(in[0])
	case 0:
		c += SC
		d += SC
	}

	shortEnd(&a, &b, &c, &d)
	return a, b
}

// longHash implements spec §4.2.2 for inputs of length >= BufSize.
func longHash(in []byte, seed1, seed2 uint64) (uint64, uint64) {
	h := [NumVars]uint64{
		seed1, seed2, SC, seed1, seed2, SC,
		seed1, seed2, SC, seed1, seed2, SC,
	}

	length := len(in)
	var block [NumVars]uint64
	for len(in) >= BlockSize {
		lanesFromBytes(in, &block)
		mixBlock(&h, &block)
		in = in[BlockSize:]
	}

	rem := length - (length/BlockSize)*BlockSize

	final := pool.GetBlock()
	defer pool.PutBlock(final)
	for i := range final {
		final[i] = 0
	}
	copy(final[:], in)
	final[BlockSize-1] = byte(rem)
	lanesFromBytes(final[:], &block)
	end(&h, &block)

	return h[0], h[1]
}
