package http

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// wideScanTier tracks which word width the target can search with in one
// comparison. Detection mirrors core/optimize/simd.go: a CPU feature check
// decides whether the wider, SIMD-within-a-register tiers are worth taking,
// the same way that file decides between AVX2/NEON and a scalar fallback.
var wideScanTier int

func init() {
	switch {
	case cpu.X86.HasAVX2, cpu.ARM64.HasASIMD:
		wideScanTier = 64
	case cpu.X86.HasSSE42:
		wideScanTier = 32
	default:
		wideScanTier = 8
	}
}

// findCarriageReturn returns the index of the first '\r' byte in buf, or -1.
//
// The search is branch-tiered on the remaining length: a scalar scan handles
// remainders under 8 bytes, and word-at-a-time SWAR scans handle the rest at
// whatever width wideScanTier allows, falling back to the next smaller tier
// when the buffer doesn't have enough bytes left for the current one. The
// result is always identical to a scalar memchr('\r') scan.
func findCarriageReturn(buf []byte) int {
	n := len(buf)
	if n < 8 {
		return scalarFindCR(buf)
	}

	off := 0
	if wideScanTier >= 64 {
		for n-off >= 8 {
			if idx := findCRWord64(buf[off : off+8]); idx >= 0 {
				return off + idx
			}
			off += 8
		}
	}
	if wideScanTier >= 32 {
		for n-off >= 4 {
			if idx := findCRWord32(buf[off : off+4]); idx >= 0 {
				return off + idx
			}
			off += 4
		}
	}
	if idx := scalarFindCR(buf[off:]); idx >= 0 {
		return off + idx
	}
	return -1
}

func scalarFindCR(buf []byte) int {
	return bytes.IndexByte(buf, '\r')
}

// findCRWord64 checks 8 bytes at once using the classic SWAR zero-byte trick:
// XOR every byte against '\r', then test for any zero byte in the word.
func findCRWord64(b []byte) int {
	w := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	w ^= 0x0D0D0D0D0D0D0D0D
	mask := hasZeroByte64(w)
	if mask == 0 {
		return -1
	}
	return firstZeroByteIndex64(mask)
}

func findCRWord32(b []byte) int {
	w := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	w ^= 0x0D0D0D0D
	mask := hasZeroByte32(w)
	if mask == 0 {
		return -1
	}
	return firstZeroByteIndex32(mask)
}

// hasZeroByte64 returns a nonzero value iff w contains a zero byte.
// Standard bit trick: (w - 0x01..01) & ^w & 0x80..80.
func hasZeroByte64(w uint64) uint64 {
	const lo = 0x0101010101010101
	const hi = 0x8080808080808080
	return (w - lo) & ^w & hi
}

func hasZeroByte32(w uint32) uint32 {
	const lo = 0x01010101
	const hi = 0x80808080
	return (w - lo) & ^w & hi
}

func firstZeroByteIndex64(mask uint64) int {
	for i := 0; i < 8; i++ {
		if mask&(0x80<<(8*i)) != 0 {
			return i
		}
	}
	return -1
}

func firstZeroByteIndex32(mask uint32) int {
	for i := 0; i < 4; i++ {
		if mask&(0x80<<(8*i)) != 0 {
			return i
		}
	}
	return -1
}
