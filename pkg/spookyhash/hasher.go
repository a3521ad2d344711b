package spookyhash

import "github.com/baxromumarov/spookyhash/pkg/pool"

// Hasher is an incremental SpookyHash V2 computation. Its zero value is not
// ready to use; call Init (or use New) before the first Update.
//
// A Hasher is a mutable value with exclusive-ownership sharing semantics: a
// single goroutine may drive Init/Update/Final at a time, but two Hashers
// operate independently without any coordination. There are no suspension
// points inside any method and no allocation on the hot path after
// construction (see spec §5).
type Hasher struct {
	s         [NumVars]uint64 // live accumulators once length >= BufSize; s[0], s[1] hold the seeds until then
	buf       [BufSize]byte   // staged, not-yet-mixed bytes, in input order
	length    int64           // total bytes absorbed since the last Init
	remainder int32           // valid bytes in buf, always < BufSize
}

// New returns a Hasher initialized with the given seed pair.
func New(seed1, seed2 uint64) *Hasher {
	h := &Hasher{}
	h.Init(seed1, seed2)
	return h
}

// Init resets the hasher to a fresh stream with the given seed pair.
func (h *Hasher) Init(seed1, seed2 uint64) {
	h.length = 0
	h.remainder = 0
	h.s[0] = seed1
	h.s[1] = seed2
}

// Update absorbs data into the stream. It is O(len(data)) and allocates
// nothing beyond the hasher's fixed state.
//
// A nil data is a caller-programming error (spec §7, NullInput) and is
// rejected without mutating any hasher field; a non-nil, zero-length slice
// is a valid no-op.
func (h *Hasher) Update(data []byte) error {
	if data == nil {
		return ErrNilUpdate
	}
	if len(data) == 0 {
		return nil
	}

	n := len(data)
	newRem := int(h.remainder) + n
	if newRem < BufSize {
		copy(h.buf[h.remainder:], data)
		h.remainder = int32(newRem)
		h.length += int64(n)
		return nil
	}

	var hs [NumVars]uint64
	if h.length < BufSize {
		seed1, seed2 := h.s[0], h.s[1]
		hs = [NumVars]uint64{
			seed1, seed2, SC, seed1, seed2, SC,
			seed1, seed2, SC, seed1, seed2, SC,
		}
	} else {
		hs = h.s
	}
	h.length += int64(n)

	var block [NumVars]uint64
	if h.remainder > 0 {
		prefix := BufSize - int(h.remainder)
		copy(h.buf[h.remainder:BufSize], data[:prefix])
		lanesFromBytes(h.buf[0:BlockSize], &block)
		mixBlock(&hs, &block)
		lanesFromBytes(h.buf[BlockSize:BufSize], &block)
		mixBlock(&hs, &block)
		data = data[prefix:]
	}

	for len(data) >= BlockSize {
		lanesFromBytes(data, &block)
		mixBlock(&hs, &block)
		data = data[BlockSize:]
	}

	tail := len(data)
	copy(h.buf[:tail], data)
	h.remainder = int32(tail)
	h.s = hs

	return nil
}

// UpdateRange is the bounds-checked external collaborator from spec §4.3/§7:
// it validates (start, length) against data before delegating to Update,
// returning ErrRangeOutOfBounds for a negative index or an out-of-range
// window instead of touching hasher state.
func (h *Hasher) UpdateRange(data []byte, start, length int) error {
	if start < 0 || length < 0 || start+length > len(data) {
		return ErrRangeOutOfBounds
	}
	return h.Update(data[start : start+length])
}

// Final returns the digest of everything absorbed since the last Init. It
// never mutates the hasher: it is safe to call repeatedly, and a later
// Update continues the same stream as if Final had not been called.
func (h *Hasher) Final() (uint64, uint64) {
	if h.length < BufSize {
		return shortHash(h.buf[:h.length], h.s[0], h.s[1])
	}

	hs := h.s
	b := pool.GetStaging()
	defer pool.PutStaging(b)
	for i := range b {
		b[i] = 0
	}
	copy(b[:], h.buf[:h.remainder])
	rem := int(h.remainder)

	var block [NumVars]uint64
	if rem >= BlockSize {
		lanesFromBytes(b[:BlockSize], &block)
		mixBlock(&hs, &block)
		copy(b[:], b[BlockSize:])
		rem -= BlockSize
	}
	// b is zero beyond the bytes we copied in, so the padding between rem
	// and the length byte is already zero without an explicit fill.
	b[BlockSize-1] = byte(rem)
	lanesFromBytes(b[:BlockSize], &block)
	end(&hs, &block)

	return hs[0], hs[1]
}

// Len reports the total number of bytes absorbed since the last Init.
func (h *Hasher) Len() int64 { return h.length }

// Remainder reports the number of bytes currently staged in the hasher's
// internal buffer, awaiting either another Update or a Final. It is always
// in [0, BufSize) (spec §6's REMAINDER_BOUND invariant) and is exposed for
// pkg/invariant's runtime checks and diagnostic tooling; it is not part of
// the digest contract.
func (h *Hasher) Remainder() int32 { return h.remainder }
