// Package zopfli implements a Zopfli-style DEFLATE encoder: an iterated
// shortest-path LZ77 search driven by a statistical cost model, paired with
// a length-limited Huffman code builder, producing a RFC 1951 compatible
// bitstream that is typically smaller than a single-pass gzip-style encoder
// would produce.
package zopfli

import "math"

// DEFLATE length/distance parameters (RFC 1951 §3.2.5).
const (
	MinMatch = 3
	MaxMatch = 258

	NumLitLenSymbols  = 288
	NumDistSymbols    = 32
	NumCodeLenSymbols = 19
	EndOfBlockSymbol  = 256
)

// lengthSymbolTable, lengthExtraBitsTable and lengthExtraValueTable are
// indexed by length (3..258); index 0..2 are unused placeholders.
var (
	lengthSymbolTable    [MaxMatch + 1]int
	lengthExtraBitsTable [MaxMatch + 1]int
	lengthExtraValueTable [MaxMatch + 1]int
)

// lengthBases and lengthExtraBits are the canonical DEFLATE length tables
// for symbols 257..285 (29 entries); the final entry (258, symbol 285) has
// zero extra bits by convention.
var (
	lengthBases = [29]int{
		3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
		67, 83, 99, 115, 131, 163, 195, 227, 258,
	}
	lengthExtraBits = [29]int{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
		4, 4, 4, 4, 5, 5, 5, 5, 0,
	}
)

// distBases and distExtraBits are the canonical DEFLATE distance tables for
// symbols 0..29.
var (
	distBases = [30]int{
		1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385,
		513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
	}
	distExtraBitsTable = [30]int{
		0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
		9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
	}
)

func init() {
	for sym := 0; sym < 29; sym++ {
		base := lengthBases[sym]
		extra := lengthExtraBits[sym]
		next := 258 + 1
		if sym+1 < 29 {
			next = lengthBases[sym+1]
		}
		for length := base; length < next && length <= MaxMatch; length++ {
			lengthSymbolTable[length] = 257 + sym
			lengthExtraBitsTable[length] = extra
			lengthExtraValueTable[length] = length - base
		}
	}
	// The final length table entry (258) maps exactly to symbol 285 with
	// zero extra bits; the loop above already assigns it via sym==28.
}

// LengthSymbol returns the DEFLATE length symbol (257..285), extra-bit
// count, and extra-bit value for a match length in [3,258].
func LengthSymbol(length int) (symbol, extraBits, extraValue int) {
	return lengthSymbolTable[length], lengthExtraBitsTable[length], lengthExtraValueTable[length]
}

// DistanceSymbol returns the DEFLATE distance symbol (0..29), extra-bit
// count, and extra-bit value for a distance in [1,32768].
func DistanceSymbol(dist int) (symbol, extraBits, extraValue int) {
	for sym := 29; sym >= 0; sym-- {
		if dist >= distBases[sym] {
			return sym, distExtraBitsTable[sym], dist - distBases[sym]
		}
	}
	return 0, 0, 0
}

// LengthExtraBits returns the number of extra bits used to encode length.
func LengthExtraBits(length int) int { return lengthExtraBitsTable[length] }

// DistanceExtraBits returns the number of extra bits used to encode dist.
func DistanceExtraBits(dist int) int {
	_, extra, _ := DistanceSymbol(dist)
	return extra
}

// log2 is shorthand for the base-2 logarithm; used throughout the cost
// model. math.Log2(0) is -Inf and must never be called with a zero count
// by a caller of this package.
func log2(v float64) float64 { return math.Log2(v) }

// SymbolCosts computes a fractional bit-cost estimate for every symbol in
// counts, given a Shannon-entropy model: bits[i] =
// log2(S) - log2(c[i]) for c[i] > 0, otherwise log2(S) as an "infinitely
// expensive" placeholder. When S == 0 all costs are zero. When exactly one
// symbol has nonzero count, its cost is pinned to 1 bit so DEFLATE's
// single-symbol block case remains representable.
func SymbolCosts(counts []uint32) []float64 {
	costs := make([]float64, len(counts))

	var sum uint64
	nonZero := 0
	for _, c := range counts {
		sum += uint64(c)
		if c > 0 {
			nonZero++
		}
	}
	if sum == 0 {
		return costs
	}

	logSum := log2(float64(sum))
	if nonZero == 1 {
		for i, c := range counts {
			if c > 0 {
				costs[i] = 1
			} else {
				costs[i] = logSum
			}
		}
		return costs
	}

	for i, c := range counts {
		if c > 0 {
			costs[i] = logSum - log2(float64(c))
		} else {
			costs[i] = logSum
		}
	}
	return costs
}
