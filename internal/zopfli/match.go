package zopfli

// Matcher finds the longest LZ77 back-reference at a given position,
// combining the rolling hash chains, a per-block match cache and a
// window/limit bound.
type Matcher struct {
	array []byte
	hash  *Hash
	cache *Cache

	// blockStart is the in-block-relative origin used to index the cache;
	// cache positions are relative to the start of the block being
	// searched, while hash/array positions are absolute.
	blockStart int
}

// NewMatcher returns a Matcher over array, using hash for chain lookups
// and cache (optional, may be nil) for memoized results.
func NewMatcher(array []byte, hash *Hash, cache *Cache, blockStart int) *Matcher {
	return &Matcher{array: array, hash: hash, cache: cache, blockStart: blockStart}
}

// equalRun returns the number of matching bytes between array[a:] and
// array[b:], bounded by limit.
func equalRun(array []byte, a, b, limit int) int {
	n := 0
	for n < limit && a+n < len(array) && array[a+n] == array[b+n] {
		n++
	}
	return n
}

// Find returns the longest match at pos (a window of up to windowSize
// bytes behind pos, and up to MaxMatch/limit bytes ahead), optionally
// filling sublen[MinMatch..length] with the shortest distance achieving
// each intermediate length. When no match of length >= MinMatch
// exists, length is reported as 1 with distance 0.
func (m *Matcher) Find(pos, limit int, sublen []uint16) (length, dist int) {
	if limit > MaxMatch {
		limit = MaxMatch
	}
	if limit > len(m.array)-pos {
		limit = len(m.array) - pos
	}
	if limit < MinMatch {
		return 1, 0
	}

	cachePos := pos - m.blockStart
	if m.cache != nil {
		if cl, cd, ok := m.cache.TryGet(cachePos, limit, sublen); ok {
			if cl >= limit || cl == 1 {
				return cl, cd
			}
			// Cache holds a shorter-than-requested best; re-search with a
			// reduced limit relative to what's already known is pointless
			// since the cache never shrinks limit bounds in practice, so
			// fall through to a full search.
		}
	}

	windowStart := pos - windowSize
	if windowStart < 0 {
		windowStart = 0
	}

	bestLength, bestDist := 0, 0
	chainVisits := 0

	same := m.hash.Same(pos)
	onSecondary := false
	candidate := m.hash.HeadPrimary()

	for candidate != none && chainVisits < maxChainHits {
		chainVisits++
		c := int(candidate)
		if c < windowStart || c == pos {
			if !onSecondary {
				candidate = m.hash.ChainPrev(candidate)
				continue
			}
			candidate = m.hash.ChainPrev2(candidate)
			continue
		}

		// Fast reject: compare the byte just beyond the current best
		// before doing a full run comparison.
		if bestLength > 0 && bestLength <= limit-1 &&
			(c+bestLength >= len(m.array) || m.array[c+bestLength] != m.array[pos+bestLength]) {
			if !onSecondary {
				candidate = m.hash.ChainPrev(candidate)
			} else {
				candidate = m.hash.ChainPrev2(candidate)
			}
			continue
		}

		// Long-same-run shortcut: when both the current position and the
		// candidate start a run of the same byte, the first
		// min(same, candSame) bytes are known equal, so the byte comparison
		// starts past them instead of re-verifying them.
		skip := 0
		if same >= MinMatch && m.array[c] == m.array[pos] {
			if candSame := m.hash.Same(c); candSame >= MinMatch {
				skip = same
				if candSame < skip {
					skip = candSame
				}
				if skip > limit {
					skip = limit
				}
			}
		}
		runLen := skip + equalRun(m.array, pos+skip, c+skip, limit-skip)

		if runLen > bestLength || (runLen == bestLength && bestLength > 0 && (pos-c) < bestDist) {
			if sublen != nil {
				for l := bestLength + 1; l <= runLen && l < len(sublen); l++ {
					sublen[l] = uint16(pos - c)
				}
			}
			bestLength = runLen
			bestDist = pos - c
			if bestLength >= limit {
				break
			}
		}

		// Switch to the secondary (same-run keyed) chain once the current
		// position is itself deep inside a long run, so the chain walk
		// stays on similarly-long runs.
		if !onSecondary && same > MinMatch-1 {
			onSecondary = true
			candidate = m.hash.HeadSecondary(pos)
			continue
		}
		if !onSecondary {
			candidate = m.hash.ChainPrev(candidate)
		} else {
			candidate = m.hash.ChainPrev2(candidate)
		}
	}

	if bestLength < MinMatch {
		bestLength, bestDist = 1, 0
	}

	if m.cache != nil {
		m.cache.Store(cachePos, bestLength, bestDist, sublen)
	}
	return bestLength, bestDist
}
