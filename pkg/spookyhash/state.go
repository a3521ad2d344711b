package spookyhash

// State is the persisted-state layout from spec §6: fifteen fields
// sufficient to resume a Hasher mid-stream (24 buffer lanes, twelve
// accumulators, the byte length, and the buffered-byte count). A host that
// wants to snapshot a Hasher through its own key/value bag round-trips
// through this plain value type instead of reaching into Hasher directly.
type State struct {
	Buf       [24]uint64
	S         [NumVars]uint64
	Length    int64
	Remainder int32
}

// Export snapshots the hasher's current state.
func (h *Hasher) Export() State {
	var st State
	for i := 0; i < len(st.Buf); i++ {
		st.Buf[i] = le64(h.buf[i*8:])
	}
	st.S = h.s
	st.Length = h.length
	st.Remainder = h.remainder
	return st
}

// Import restores the hasher from a previously exported State, resuming the
// stream it was taken from.
func (h *Hasher) Import(st State) {
	for i := 0; i < len(st.Buf); i++ {
		putLE64(h.buf[i*8:i*8+8], st.Buf[i])
	}
	h.s = st.S
	h.length = st.Length
	h.remainder = st.Remainder
}

// FromState builds a new Hasher directly from a previously exported State.
func FromState(st State) *Hasher {
	h := &Hasher{}
	h.Import(st)
	return h
}

// putLE64 writes x into b (len(b) >= 8) in little-endian byte order.
func putLE64(b []byte, x uint64) {
	_ = b[7]
	b[0] = byte(x)
	b[1] = byte(x >> 8)
	b[2] = byte(x >> 16)
	b[3] = byte(x >> 24)
	b[4] = byte(x >> 32)
	b[5] = byte(x >> 40)
	b[6] = byte(x >> 48)
	b[7] = byte(x >> 56)
}
