// Package pool provides sync.Pool-based buffer pools for reducing
// allocations on the hashing hot path and in the CLI's file-reading loop.
package pool

import (
	"sync"

	"github.com/baxromumarov/spookyhash/pkg/metrics"
)

// Buffer sizes for different use cases.
const (
	SmallBufSize  = 256
	MediumBufSize = 4096
	LargeBufSize  = 64 * 1024

	// BlockSize is the SpookyHash long-path block size. A pooled block is
	// always exactly this long and backed by a fresh array, so it starts
	// 8-byte aligned regardless of what the caller does with the slice
	// header around it.
	BlockSize = 96

	// StagingSize is the streaming hasher's buffer size (two blocks), used
	// when finalizing a long-path stream without mutating the hasher.
	StagingSize = 192
)

// ByteSlice pools for different sizes.
var (
	smallBufPool = sync.Pool{
		New: func() any {
			b := make([]byte, SmallBufSize)
			return &b
		},
	}

	mediumBufPool = sync.Pool{
		New: func() any {
			b := make([]byte, MediumBufSize)
			return &b
		},
	}

	largeBufPool = sync.Pool{
		New: func() any {
			b := make([]byte, LargeBufSize)
			return &b
		},
	}

	blockPool = sync.Pool{
		New: func() any {
			b := new([BlockSize]byte)
			return b
		},
	}

	stagingPool = sync.Pool{
		New: func() any {
			b := new([StagingSize]byte)
			return b
		},
	}
)

// GetSmallBuf gets a small buffer (256 bytes) from the pool.
func GetSmallBuf() *[]byte {
	metrics.Global().IncPoolGet("small")
	return smallBufPool.Get().(*[]byte)
}

// PutSmallBuf returns a small buffer to the pool.
func PutSmallBuf(b *[]byte) {
	if b == nil || cap(*b) < SmallBufSize {
		return
	}
	*b = (*b)[:SmallBufSize]
	smallBufPool.Put(b)
}

// GetMediumBuf gets a medium buffer (4KB) from the pool.
func GetMediumBuf() *[]byte {
	metrics.Global().IncPoolGet("medium")
	return mediumBufPool.Get().(*[]byte)
}

// PutMediumBuf returns a medium buffer to the pool.
func PutMediumBuf(b *[]byte) {
	if b == nil || cap(*b) < MediumBufSize {
		return
	}
	*b = (*b)[:MediumBufSize]
	mediumBufPool.Put(b)
}

// GetLargeBuf gets a large buffer (64KB) from the pool.
func GetLargeBuf() *[]byte {
	metrics.Global().IncPoolGet("large")
	return largeBufPool.Get().(*[]byte)
}

// PutLargeBuf returns a large buffer to the pool.
func PutLargeBuf(b *[]byte) {
	if b == nil || cap(*b) < LargeBufSize {
		return
	}
	*b = (*b)[:LargeBufSize]
	largeBufPool.Put(b)
}

// GetBuf gets a buffer of at least the specified size from the appropriate pool.
func GetBuf(size int) *[]byte {
	switch {
	case size <= SmallBufSize:
		return GetSmallBuf()
	case size <= MediumBufSize:
		return GetMediumBuf()
	case size <= LargeBufSize:
		return GetLargeBuf()
	default:
		// For very large buffers, allocate directly
		metrics.Global().IncPoolGet("oversized")
		b := make([]byte, size)
		return &b
	}
}

// PutBuf returns a buffer to the appropriate pool based on its capacity.
func PutBuf(b *[]byte) {
	if b == nil {
		return
	}
	switch {
	case cap(*b) >= LargeBufSize:
		PutLargeBuf(b)
	case cap(*b) >= MediumBufSize:
		PutMediumBuf(b)
	case cap(*b) >= SmallBufSize:
		PutSmallBuf(b)
		// Smaller buffers are not pooled
	}
}

// GetBlock gets a 96-byte scratch array for staging a SpookyHash long-path
// block (the one-shot long path's final padded block). The contents are
// undefined; callers must fill every byte they read.
func GetBlock() *[BlockSize]byte {
	metrics.Global().IncPoolGet("block")
	return blockPool.Get().(*[BlockSize]byte)
}

// PutBlock returns a block obtained from GetBlock.
func PutBlock(b *[BlockSize]byte) {
	if b == nil {
		return
	}
	blockPool.Put(b)
}

// GetStaging gets a 192-byte scratch array sized to the streaming hasher's
// buffer, used when finalizing a long-path stream without touching the
// hasher's own staging buffer. Contents are undefined.
func GetStaging() *[StagingSize]byte {
	metrics.Global().IncPoolGet("staging")
	return stagingPool.Get().(*[StagingSize]byte)
}

// PutStaging returns a buffer obtained from GetStaging.
func PutStaging(b *[StagingSize]byte) {
	if b == nil {
		return
	}
	stagingPool.Put(b)
}
