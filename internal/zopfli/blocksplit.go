package zopfli

// maxBlockSplits bounds the number of blocks a single Deflate call will
// produce: beyond this the per-block Huffman-table overhead tends
// to outweigh any further gain from narrower symbol statistics.
const maxBlockSplits = 15

// estimateCost is the cost function the splitter optimizes against: the
// same auto-type bit size used when actually emitting a block, so the
// chosen split points match what will really be written.
func estimateCost(store *Store, lstart, lend int) int {
	return CalculateBlockSizeAutoType(store, lstart, lend)
}

// findMinimumBlockSplit searches [lstart, lend) for the interior point
// that minimizes the combined cost of the two resulting halves. Large
// ranges are scanned at a coarse stride first and then refined locally
// around the coarse winner, trading a small amount of precision for
// bounded search cost on large inputs.
func findMinimumBlockSplit(store *Store, lstart, lend int) (splitAt, splitCost int, ok bool) {
	if lend-lstart < 2 {
		return 0, 0, false
	}

	stride := 1
	if n := lend - lstart; n > 200 {
		stride = n / 100
	}

	bestSplit, bestCost := -1, -1
	for i := lstart + 1; i < lend; i += stride {
		c := estimateCost(store, lstart, i) + estimateCost(store, i, lend)
		if bestCost == -1 || c < bestCost {
			bestCost, bestSplit = c, i
		}
	}

	lo, hi := bestSplit-stride, bestSplit+stride
	if lo < lstart+1 {
		lo = lstart + 1
	}
	if hi > lend-1 {
		hi = lend - 1
	}
	for i := lo; i <= hi; i++ {
		c := estimateCost(store, lstart, i) + estimateCost(store, i, lend)
		if c < bestCost {
			bestCost, bestSplit = c, i
		}
	}

	if bestSplit <= lstart || bestSplit >= lend {
		return 0, 0, false
	}
	return bestSplit, bestCost, true
}

// Split partitions [lstart, lend) into at most maxBlockSplits blocks and
// returns the sorted interior split points. At each round it splits
// whichever existing segment yields the largest size reduction, stopping
// once no further split reduces total size or the block budget is spent.
func Split(store *Store, lstart, lend int) []int {
	type segment struct{ start, end int }
	segments := []segment{{lstart, lend}}

	for len(segments) < maxBlockSplits {
		bestSeg, bestSplit, bestGain := -1, 0, 0

		for si, seg := range segments {
			unsplit := estimateCost(store, seg.start, seg.end)
			split, splitCost, ok := findMinimumBlockSplit(store, seg.start, seg.end)
			if !ok {
				continue
			}
			if gain := unsplit - splitCost; gain > bestGain {
				bestGain, bestSeg, bestSplit = gain, si, split
			}
		}

		if bestSeg == -1 {
			break
		}

		seg := segments[bestSeg]
		rest := append([]segment{}, segments[bestSeg+1:]...)
		segments = append(segments[:bestSeg], segment{seg.start, bestSplit}, segment{bestSplit, seg.end})
		segments = append(segments, rest...)
	}

	points := make([]int, 0, len(segments)-1)
	for i := 0; i < len(segments)-1; i++ {
		points = append(points, segments[i].end)
	}
	return points
}
