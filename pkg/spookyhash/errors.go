package spookyhash

import "errors"

// ErrNilUpdate is returned by Hasher.Update and UpdateRange when called with
// a nil byte range. Spec §7 treats this as NullInput: a caller-programming
// error surfaced immediately, leaving hasher state untouched. A non-nil,
// zero-length slice is not an error — it is a valid no-op update.
var ErrNilUpdate = errors.New("spookyhash: Update called with nil data")

// ErrRangeOutOfBounds is returned by UpdateRange when (start, length)
// describes a negative index or a window extending past data. This is the
// RangeOutOfBounds error kind from spec §7, belonging to the external
// string/sequence convenience wrappers rather than the raw byte-update core.
var ErrRangeOutOfBounds = errors.New("spookyhash: range out of bounds")
