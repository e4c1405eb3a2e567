package zopfli

// SymbolStats holds a symbol-statistics block: two count arrays and two
// parallel fractional bit-cost arrays, derived by a Shannon-entropy
// model over the counts.
type SymbolStats struct {
	llCount [NumLitLenSymbols]uint32
	dCount  [NumDistSymbols]uint32

	llCost [NumLitLenSymbols]float64
	dCost  [NumDistSymbols]float64
}

// FromStore replaces the receiver's counts with the histograms of
// store[lstart:lend) and recomputes the cost tables.
func (st *SymbolStats) FromStore(store *Store, lstart, lend int) {
	st.llCount, st.dCount = store.Histograms(lstart, lend)
	// End-of-block must always be codeable.
	if st.llCount[EndOfBlockSymbol] == 0 {
		st.llCount[EndOfBlockSymbol] = 1
	}
	st.RecalculateCosts()
}

// RecalculateCosts rebuilds the cost tables from the current counts.
func (st *SymbolStats) RecalculateCosts() {
	copy(st.llCost[:], SymbolCosts(st.llCount[:]))
	copy(st.dCost[:], SymbolCosts(st.dCount[:]))
}

// LiteralCost returns the modeled bit-cost of emitting literal byte b.
func (st *SymbolStats) LiteralCost(b byte) float64 { return st.llCost[b] }

// LengthDistCost returns the modeled bit-cost (including extra bits) of
// emitting a back-reference of the given length and distance.
func (st *SymbolStats) LengthDistCost(length, dist int) float64 {
	lSym, lExtra, _ := LengthSymbol(length)
	dSym, dExtra, _ := DistanceSymbol(dist)
	return st.llCost[lSym] + float64(lExtra) + st.dCost[dSym] + float64(dExtra)
}

// CopyFrom overwrites the receiver with src's counts and costs.
func (st *SymbolStats) CopyFrom(src *SymbolStats) { *st = *src }

// clear zeroes all counts and costs.
func (st *SymbolStats) clear() {
	*st = SymbolStats{}
}

// addWeighted blends the receiver's counts with other's at the given
// weights, used by the squeeze randomization's plateau-escape blend.
func (st *SymbolStats) addWeighted(other *SymbolStats, selfWeight, otherWeight float64) {
	for i := range st.llCount {
		st.llCount[i] = uint32(float64(st.llCount[i])*selfWeight + float64(other.llCount[i])*otherWeight)
	}
	for i := range st.dCount {
		st.dCount[i] = uint32(float64(st.dCount[i])*selfWeight + float64(other.dCount[i])*otherWeight)
	}
}

// fixedTreeStats returns the SymbolStats corresponding to the DEFLATE
// fixed Huffman tree, used by the fixed-tree squeeze variant: literal/
// length 0-143 get 8 bits, 144-255 get 9, 256-279 get 7,
// 280-287 get 8; all 30 distance codes get 5 bits. Costs are the fixed bit
// counts directly rather than a count-derived entropy estimate.
func fixedTreeStats() *SymbolStats {
	st := &SymbolStats{}
	for i := 0; i < 288; i++ {
		switch {
		case i < 144:
			st.llCost[i] = 8
		case i < 256:
			st.llCost[i] = 9
		case i < 280:
			st.llCost[i] = 7
		default:
			st.llCost[i] = 8
		}
	}
	for i := 0; i < 32; i++ {
		st.dCost[i] = 5
	}
	return st
}
