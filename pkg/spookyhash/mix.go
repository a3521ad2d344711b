package spookyhash

// rol64 is a left rotation of a 64-bit value by k bits, 0 < k < 64.
func rol64(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// mixRotate is the rotation schedule R used by mixBlock, indexed by lane.
var mixRotate = [NumVars]uint{11, 32, 43, 31, 17, 28, 39, 57, 55, 54, 22, 46}

// endRotate is the rotation schedule E used by endPartial, indexed by lane.
var endRotate = [NumVars]uint{44, 15, 34, 21, 38, 33, 10, 13, 38, 53, 42, 54}

// mixBlock absorbs one 96-byte block, presented as twelve little-endian
// uint64 lanes in d, into the twelve accumulators in h. The twelve
// statements execute strictly in lane order; each lane's update is visible
// to the next lane's update, which is part of the function and not merely
// an implementation detail.
func mixBlock(h, d *[NumVars]uint64) {
	for i := 0; i < NumVars; i++ {
		a := (i + 2) % NumVars
		b := (i + 10) % NumVars
		c := (i + 11) % NumVars
		e := (i + 1) % NumVars

		h[i] += d[i]
		h[a] ^= h[b]
		h[c] ^= h[i]
		h[i] = rol64(h[i], mixRotate[i])
		h[c] += h[e]
	}
}

// endPartial runs one round of the finisher over the twelve accumulators
// without absorbing any new data.
func endPartial(h *[NumVars]uint64) {
	for i := 0; i < NumVars; i++ {
		a := (i + 11) % NumVars
		b := (i + 1) % NumVars
		c := (i + 2) % NumVars

		h[a] += h[b]
		h[c] ^= h[a]
		h[b] = rol64(h[b], endRotate[i])
	}
}

// end absorbs the final 96-byte block d into h and runs three finishing
// rounds; a 128-bit result needs three rounds where a 64-bit one would be
// satisfied by two.
func end(h, d *[NumVars]uint64) {
	for i := 0; i < NumVars; i++ {
		h[i] += d[i]
	}
	endPartial(h)
	endPartial(h)
	endPartial(h)
}

// shortMix mixes the 4-lane short-path state in place.
func shortMix(a, b, c, d *uint64) {
	*c = rol64(*c, 50)
	*c += *d
	*a ^= *c
	*d = rol64(*d, 52)
	*d += *a
	*b ^= *d
	*a = rol64(*a, 30)
	*a += *b
	*c ^= *a
	*b = rol64(*b, 41)
	*b += *c
	*d ^= *b
	*c = rol64(*c, 54)
	*c += *d
	*a ^= *c
	*d = rol64(*d, 48)
	*d += *a
	*b ^= *d
	*a = rol64(*a, 38)
	*a += *b
	*c ^= *a
	*b = rol64(*b, 37)
	*b += *c
	*d ^= *b
	*c = rol64(*c, 62)
	*c += *d
	*a ^= *c
	*d = rol64(*d, 34)
	*d += *a
	*b ^= *d
	*a = rol64(*a, 5)
	*a += *b
	*c ^= *a
	*b = rol64(*b, 36)
	*b += *c
	*d ^= *b
}

// shortEnd finishes the 4-lane short-path state, leaving the digest in a, b.
func shortEnd(a, b, c, d *uint64) {
	*d ^= *c
	*c = rol64(*c, 15)
	*d += *c
	*a ^= *d
	*d = rol64(*d, 52)
	*a += *d
	*b ^= *a
	*a = rol64(*a, 26)
	*b += *a
	*c ^= *b
	*b = rol64(*b, 51)
	*c += *b
	*d ^= *c
	*c = rol64(*c, 28)
	*d += *c
	*a ^= *d
	*d = rol64(*d, 9)
	*a += *d
	*b ^= *a
	*a = rol64(*a, 47)
	*b += *a
	*c ^= *b
	*b = rol64(*b, 54)
	*c += *b
	*d ^= *c
	*c = rol64(*c, 32)
	*d += *c
	*a ^= *d
	*d = rol64(*d, 25)
	*a += *d
	*b ^= *a
	*a = rol64(*a, 63)
	*b += *a
}

// lanesFromBytes reads twelve little-endian uint64 lanes from a 96-byte
// block. It never uses an unsafe pointer cast, so it produces identical
// results whether or not the host tolerates unaligned 64-bit loads.
func lanesFromBytes(b []byte, out *[NumVars]uint64) {
	for i := 0; i < NumVars; i++ {
		out[i] = le64(b[i*8:])
	}
}

// le64 reads a little-endian uint64 from the first 8 bytes of b.
func le64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// le32 reads a little-endian uint32 from the first 4 bytes of b.
func le32(b []byte) uint64 {
	_ = b[3]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
}
