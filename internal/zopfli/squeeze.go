package zopfli

import "math"

// costModel abstracts the per-symbol bit-cost function used by the
// shortest-path search, letting LZ77Optimal (iterated entropy model) and
// LZ77OptimalFixed (fixed Huffman tree) share one search routine.
type costModel interface {
	LiteralCost(b byte) float64
	LengthDistCost(length, dist int) float64
}

// mwc is the Multiply-With-Carry generator used to perturb symbol
// frequencies between squeeze iterations, seeded identically on every run
// so results are reproducible.
type mwc struct {
	w uint32
	z uint32
}

func newMWC() *mwc { return &mwc{w: 1, z: 2} }

func (r *mwc) next() uint32 {
	r.z = 36969*(r.z&0xffff) + (r.z >> 16)
	r.w = 18000*(r.w&0xffff) + (r.w >> 16)
	return (r.z << 16) + r.w
}

// randomDouble returns a pseudo-random value in [0, 1).
func (r *mwc) randomDouble() float64 {
	return float64(r.next()) / float64(1<<32)
}

// randomizedCopy returns a copy of st in which each count, with
// probability about 1/3, is replaced by the count of a randomly chosen
// slot of the same table, giving the shortest-path search a different
// cost landscape to explore on a plateau-escape round.
func randomizedCopy(st *SymbolStats, r *mwc) *SymbolStats {
	out := &SymbolStats{}
	*out = *st
	for i := range out.llCount {
		if r.next()%3 == 0 {
			idx := r.next() % uint32(len(out.llCount))
			out.llCount[i] = out.llCount[idx]
		}
	}
	for i := range out.dCount {
		if r.next()%3 == 0 {
			idx := r.next() % uint32(len(out.dCount))
			out.dCount[i] = out.dCount[idx]
		}
	}
	out.RecalculateCosts()
	return out
}

// shortestPath runs the cost-model-driven shortest-path search over
// [instart, inend) (the "squeeze" core): for every position it
// considers both a literal edge and every reachable back-reference length
// (read off the match finder's per-length sublen table), keeping the
// cheapest predecessor for each offset. The result is written into store
// by tracing the argmin path back to front and then replaying it forward.
func shortestPath(array []byte, instart, inend int, hash *Hash, cache *Cache, model costModel, store *Store) {
	if instart >= inend {
		return
	}
	n := inend - instart

	costs := make([]float64, n+1)
	length := make([]uint16, n+1)
	dist := make([]uint16, n+1)
	for i := 1; i <= n; i++ {
		costs[i] = math.MaxFloat64
	}

	hash.Reset(array, instart)
	matcher := NewMatcher(array, hash, cache, instart)
	sublen := make([]uint16, MaxMatch+1)

	for i := instart; i < inend; i++ {
		hash.Update(array, i)
		offset := i - instart

		litCost := costs[offset] + model.LiteralCost(array[i])
		if litCost < costs[offset+1] {
			costs[offset+1] = litCost
			length[offset+1] = 1
			dist[offset+1] = 0
		}

		for k := range sublen {
			sublen[k] = 0
		}
		bestLength, _ := matcher.Find(i, inend-i, sublen)
		if bestLength < MinMatch {
			continue
		}

		for l := MinMatch; l <= bestLength && offset+l <= n; l++ {
			d := int(sublen[l])
			if d == 0 {
				continue
			}
			c := costs[offset] + model.LengthDistCost(l, d)
			if c < costs[offset+l] {
				costs[offset+l] = c
				length[offset+l] = uint16(l)
				dist[offset+l] = uint16(d)
			}
		}
	}

	// Trace the argmin path back to front, then replay it forward into
	// store.
	var path []int
	for idx := n; idx > 0; idx -= int(length[idx]) {
		path = append(path, idx)
	}

	pos := instart
	for k := len(path) - 1; k >= 0; k-- {
		end := path[k]
		start := 0
		if k+1 < len(path) {
			start = path[k+1]
		}
		l := end - start
		if l == 1 && dist[end] == 0 {
			store.AddLiteral(array[pos], pos)
		} else {
			store.AddLengthDist(l, int(dist[end]), pos)
		}
		pos += l
	}
}

// LZ77Optimal runs the iterated entropy-model squeeze: a greedy pass
// seeds the initial statistics, then shortestPath is re-run against
// progressively refined cost models for maxIterations rounds. A round
// that fails to beat the best cost seen so far triggers a randomized
// perturbation of the stats every second such round, giving the search
// a different cost landscape to try to escape a plateau. The loop runs
// its full budget regardless, rather than stopping as soon as a plateau
// is reached. The best store found is written into out.
func LZ77Optimal(array []byte, instart, inend int, hash *Hash, cache *Cache, out *Store, maxIterations int) {
	if instart >= inend {
		out.Reset()
		return
	}
	if maxIterations < 1 {
		maxIterations = 1
	}

	seed := NewStore(inend - instart)
	GreedyLZ77(array, instart, inend, hash, cache, seed)

	stats := &SymbolStats{}
	stats.FromStore(seed, 0, seed.Len())

	rng := newMWC()
	best := seed
	bestCost := storeCost(seed, stats)

	noImprovement := 0
	for iter := 0; iter < maxIterations; iter++ {
		trial := NewStore(inend - instart)
		shortestPath(array, instart, inend, hash, cache, stats, trial)

		trialStats := &SymbolStats{}
		trialStats.FromStore(trial, 0, trial.Len())
		cost := storeCost(trial, trialStats)

		if cost < bestCost {
			bestCost = cost
			best = trial
			noImprovement = 0
		} else {
			noImprovement++
		}

		stats.CopyFrom(trialStats)
		if noImprovement > 0 && noImprovement%2 == 0 {
			perturbed := randomizedCopy(stats, rng)
			stats.addWeighted(perturbed, 1.0, 0.5)
			stats.RecalculateCosts()
		}
	}

	out.Reset()
	for i := 0; i < best.Len(); i++ {
		if best.IsLiteral(i) {
			out.AddLiteral(byte(best.LLSymbol(i)), best.Pos(i))
		} else {
			out.AddLengthDist(best.Length(i), best.Dist(i), best.Pos(i))
		}
	}
}

// LZ77OptimalFixed runs a single shortest-path pass costed against the
// DEFLATE fixed Huffman tree rather than an iterated entropy model,
// matching the "fixed block" candidate path.
func LZ77OptimalFixed(array []byte, instart, inend int, hash *Hash, cache *Cache, out *Store) {
	out.Reset()
	if instart >= inend {
		return
	}
	shortestPath(array, instart, inend, hash, cache, fixedTreeStats(), out)
}

// storeCost totals st's modeled bit cost over every element of s plus one
// end-of-block symbol, used to compare squeeze iterations against each
// other.
func storeCost(s *Store, st *SymbolStats) float64 {
	total := 0.0
	for i := 0; i < s.Len(); i++ {
		if s.IsLiteral(i) {
			total += st.LiteralCost(byte(s.LLSymbol(i)))
		} else {
			total += st.LengthDistCost(s.Length(i), s.Dist(i))
		}
	}
	total += st.llCost[EndOfBlockSymbol]
	return total
}
