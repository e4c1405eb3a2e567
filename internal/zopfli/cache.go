package zopfli

// maxCachedSublen bounds how many lengths of the sub-length table are kept
// per cache slot. Matches the original Zopfli cache (which caps around 259
// entries, one per representable match length plus the literal case).
const maxCachedSublen = MaxMatch + 1

// cacheEntry is one slot of the per-block match cache: the best
// match found so far at this position, plus a sub-length table
// recording, for every cached length, the distance that first achieves
// it.
type cacheEntry struct {
	length    uint16 // best known match length, 0 = unsearched, 1 = proven unmatchable
	dist      uint16
	maxCached uint16          // largest length covered by sublen
	sublen    []uint16        // sublen[l-MinMatch] = distance achieving length l
}

// Cache is the per-block sub-length cache: an arena of cacheEntry
// slots indexed by in-block position, owned exclusively by the worker
// processing one job — no thread-local, no singletons.
type Cache struct {
	entries []cacheEntry
}

// NewCache allocates a Cache sized for a block of blocksize positions.
func NewCache(blocksize int) *Cache {
	return &Cache{entries: make([]cacheEntry, blocksize)}
}

// Reset clears all cache slots for reuse on a new block, without
// reallocating if the cache is already large enough.
func (c *Cache) Reset(blocksize int) {
	if cap(c.entries) >= blocksize {
		c.entries = c.entries[:blocksize]
		for i := range c.entries {
			c.entries[i] = cacheEntry{}
		}
		return
	}
	c.entries = make([]cacheEntry, blocksize)
}

// TryGet looks up a cached match for position p (relative to the block
// start) with the given minimum usable limit. It reports a hit when the
// cached entry already covers at least `limit`, or is known unmatchable.
// When sublen is non-nil and a hit occurs, the cached compact sub-length
// table is expanded into it.
func (c *Cache) TryGet(p, limit int, sublen []uint16) (length, dist int, ok bool) {
	if p < 0 || p >= len(c.entries) {
		return 0, 0, false
	}
	e := &c.entries[p]
	if e.length == 0 {
		return 0, 0, false
	}
	if e.length == 1 && limit >= MinMatch {
		// Proven unmatchable up to maxCached; no need to re-search within
		// that bound.
		if limit <= int(e.maxCached) || e.maxCached == 0 {
			return 1, 0, true
		}
		return 0, 0, false
	}
	if sublen != nil && e.maxCached == 0 {
		// Stored without a sub-length table: there is nothing to expand
		// into sublen, so the caller has to search.
		return 0, 0, false
	}
	if int(e.length) >= limit || int(e.maxCached) >= limit {
		if sublen != nil {
			c.expandSublen(e, sublen)
		}
		length = int(e.length)
		dist = int(e.dist)
		if limit <= int(e.maxCached) && sublen != nil {
			// Report the exact (length, distance) achievable at `limit`,
			// not necessarily the globally best one.
			if d := sublen[limit]; d != 0 {
				return limit, int(d), true
			}
		}
		return length, dist, true
	}
	return 0, 0, false
}

// expandSublen copies the entry's stored sub-length table into the
// caller-provided full-size array, indexed by length.
func (c *Cache) expandSublen(e *cacheEntry, sublen []uint16) {
	for l := MinMatch; l <= int(e.maxCached) && l < len(sublen) && l-MinMatch < len(e.sublen); l++ {
		sublen[l] = e.sublen[l-MinMatch]
	}
}

// Store records the best match found at position p, along with a
// sub-length table (indexed by length, MinMatch..maxCached) giving the
// distance that first achieves that length. The table is kept as a dense
// copy of sublen[MinMatch..maxCached]; it is not delta- or
// run-length-compacted. With a nil sublen no table is kept.
func (c *Cache) Store(p, length, dist int, sublen []uint16) {
	if p < 0 || p >= len(c.entries) {
		return
	}
	e := &c.entries[p]
	if length < MinMatch {
		e.length = 1
		e.dist = 0
	} else {
		e.length = uint16(length)
		e.dist = uint16(dist)
	}

	maxCached := length
	if maxCached > maxCachedSublen-1 {
		maxCached = maxCachedSublen - 1
	}
	if sublen != nil && maxCached >= MinMatch {
		e.maxCached = uint16(maxCached)
		e.sublen = append(e.sublen[:0], sublen[MinMatch:maxCached+1]...)
	} else {
		e.maxCached = 0
	}
}
