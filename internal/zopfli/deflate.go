package zopfli

// Options controls the cost of a Deflate call.
type Options struct {
	// NumIterations overrides the squeeze loop's iteration budget. Zero
	// selects the size-tiered default (see effectiveIterations); a
	// nonzero value is used directly, clamped to [minIterations,
	// maxIterationsOverride].
	NumIterations int
}

// DefaultOptions returns the Options used by the PNG driver: the
// zero value, which selects the size-tiered default iteration count.
func DefaultOptions() Options { return Options{} }

const (
	// largeInputThreshold is the byte count at or above which the
	// default iteration budget drops from iterationsSmall to
	// iterationsLarge: squeeze's marginal gain per round shrinks on
	// large inputs, so fewer rounds buy most of the benefit at a
	// fraction of the cost.
	largeInputThreshold = 200 * 1024
	iterationsLarge     = 20
	iterationsSmall     = 60

	minIterations         = 1
	maxIterationsOverride = 500
)

// effectiveIterations resolves opts.NumIterations against the size of the
// input being compressed: zero selects the size-tiered default, and any
// other value is clamped into [minIterations, maxIterationsOverride].
func effectiveIterations(dataLen int, opts Options) int {
	n := opts.NumIterations
	if n == 0 {
		if dataLen >= largeInputThreshold {
			n = iterationsLarge
		} else {
			n = iterationsSmall
		}
	}
	if n < minIterations {
		n = minIterations
	}
	if n > maxIterationsOverride {
		n = maxIterationsOverride
	}
	return n
}

// Deflate compresses data into a complete raw DEFLATE stream (RFC 1951,
// no zlib or gzip wrapper): it runs the iterated squeeze to find an LZ77
// parse, splits it into at most maxBlockSplits blocks, and for each
// block picks whichever of stored/fixed/dynamic encodes smallest.
func Deflate(data []byte, opts Options) []byte {
	w := NewBitWriter()

	if len(data) == 0 {
		w.WriteBits(1, 1)
		w.WriteBits(0, 2)
		w.Flush()
		w.WriteBits(0, 16)
		w.WriteBits(0xFFFF, 16)
		return w.Bytes()
	}

	hash := NewHash()
	cache := NewCache(len(data))
	store := NewStore(len(data))
	LZ77Optimal(data, 0, len(data), hash, cache, store, effectiveIterations(len(data), opts))

	splits := Split(store, 0, store.Len())
	bounds := make([]int, 0, len(splits)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, splits...)
	bounds = append(bounds, store.Len())

	for b := 0; b < len(bounds)-1; b++ {
		lstart, lend := bounds[b], bounds[b+1]
		final := b == len(bounds)-2
		writeBlock(w, data, store, lstart, lend, final)
	}
	w.Flush()
	return w.Bytes()
}

// writeBlock picks the cheapest of stored/fixed/dynamic for
// store[lstart:lend) and emits it.
func writeBlock(w *BitWriter, data []byte, store *Store, lstart, lend int, final bool) {
	stored := CalculateBlockSizeStored(store, lstart, lend)
	fixed := CalculateBlockSizeFixed(store, lstart, lend)
	dynamic, trees := CalculateBlockSizeDynamic(store, lstart, lend)

	finalBit := uint32(0)
	if final {
		finalBit = 1
	}

	switch {
	case stored <= fixed && stored <= dynamic:
		writeStoredBlock(w, data, store, lstart, lend, finalBit)
	case fixed <= dynamic:
		writeFixedBlock(w, store, lstart, lend, finalBit)
	default:
		writeDynamicBlock(w, store, lstart, lend, finalBit, trees)
	}
}

func writeStoredBlock(w *BitWriter, data []byte, store *Store, lstart, lend int, finalBit uint32) {
	start := store.Pos(lstart)
	remaining := store.ByteRange(lstart, lend)
	offset := start

	for remaining > 0 {
		chunk := remaining
		if chunk > 65535 {
			chunk = 65535
		}
		isLast := finalBit == 1 && chunk == remaining

		f := uint32(0)
		if isLast {
			f = 1
		}
		w.WriteBits(f, 1)
		w.WriteBits(0, 2)
		w.Flush()
		w.WriteBits(uint32(chunk), 16)
		w.WriteBits(uint32(chunk)^0xFFFF, 16)
		w.WriteRaw(data[offset : offset+chunk])

		offset += chunk
		remaining -= chunk
	}
}

func fixedTreeLengths() (ll, d []uint8) {
	ll = make([]uint8, NumLitLenSymbols)
	for i := range ll {
		switch {
		case i < 144:
			ll[i] = 8
		case i < 256:
			ll[i] = 9
		case i < 280:
			ll[i] = 7
		default:
			ll[i] = 8
		}
	}
	d = make([]uint8, NumDistSymbols)
	for i := range d {
		d[i] = 5
	}
	return ll, d
}

func writeFixedBlock(w *BitWriter, store *Store, lstart, lend int, finalBit uint32) {
	w.WriteBits(finalBit, 1)
	w.WriteBits(1, 2)

	llLengths, dLengths := fixedTreeLengths()
	llCodes := CanonicalCodes(llLengths)
	dCodes := CanonicalCodes(dLengths)
	emitSymbols(w, store, lstart, lend, llLengths, llCodes, dLengths, dCodes)
}

func writeDynamicBlock(w *BitWriter, store *Store, lstart, lend int, finalBit uint32, trees *dynamicTrees) {
	w.WriteBits(finalBit, 1)
	w.WriteBits(2, 2)
	w.WriteBits(uint32(trees.hlit-257), 5)
	w.WriteBits(uint32(trees.hdist-1), 5)
	w.WriteBits(uint32(trees.hclen-4), 4)

	for i := 0; i < trees.hclen; i++ {
		w.WriteBits(uint32(trees.clLengths[codeLengthOrder[i]]), 3)
	}
	for idx, sym := range trees.clSymbols {
		w.WriteHuffmanCode(trees.clCodes[sym], trees.clLengths[sym])
		switch sym {
		case 16:
			w.WriteBits(uint32(trees.clExtra[idx]), 2)
		case 17:
			w.WriteBits(uint32(trees.clExtra[idx]), 3)
		case 18:
			w.WriteBits(uint32(trees.clExtra[idx]), 7)
		}
	}

	emitSymbols(w, store, lstart, lend, trees.llLengths, trees.llCodes, trees.dLengths, trees.dCodes)
}

// emitSymbols writes the literal/length/distance symbol stream for
// store[lstart:lend) using the given canonical code tables, followed by
// the end-of-block symbol.
func emitSymbols(w *BitWriter, store *Store, lstart, lend int, llLengths []uint8, llCodes []uint16, dLengths []uint8, dCodes []uint16) {
	for i := lstart; i < lend; i++ {
		if store.IsLiteral(i) {
			sym := store.LLSymbol(i)
			w.WriteHuffmanCode(llCodes[sym], llLengths[sym])
			continue
		}
		length := store.Length(i)
		dist := store.Dist(i)
		lSym, lExtra, lExtraVal := LengthSymbol(length)
		dSym, dExtra, dExtraVal := DistanceSymbol(dist)

		w.WriteHuffmanCode(llCodes[lSym], llLengths[lSym])
		if lExtra > 0 {
			w.WriteBits(uint32(lExtraVal), uint(lExtra))
		}
		w.WriteHuffmanCode(dCodes[dSym], dLengths[dSym])
		if dExtra > 0 {
			w.WriteBits(uint32(dExtraVal), uint(dExtra))
		}
	}
	w.WriteHuffmanCode(llCodes[EndOfBlockSymbol], llLengths[EndOfBlockSymbol])
}
