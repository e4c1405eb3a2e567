package zopfli

// GreedyLZ77 runs a fast, gzip-style lazy-matching LZ77 pass over
// [instart, inend) and appends the result to store. At each
// position the longest match is found; if a match is pending from the
// previous position, it is compared against the one found here — a
// strictly longer match at the new position wins and the pending one is
// emitted as a literal instead (lazy matching, deferring to the better
// match one byte later).
func GreedyLZ77(array []byte, instart, inend int, hash *Hash, cache *Cache, store *Store) {
	if instart >= inend {
		return
	}

	hash.Reset(array, instart)
	matcher := NewMatcher(array, hash, cache, instart)

	var prevLength, prevDist int
	matchAvailable := false

	pos := instart
	for pos < inend {
		hash.Update(array, pos)
		length, dist := matcher.Find(pos, inend-pos, nil)

		if matchAvailable {
			if length > prevLength {
				store.AddLiteral(array[pos-1], pos-1)
				if length >= MinMatch {
					prevLength, prevDist = length, dist
					matchAvailable = true
				} else {
					matchAvailable = false
				}
				pos++
				continue
			}

			store.AddLengthDist(prevLength, prevDist, pos-1)
			for i := 0; i < prevLength-2; i++ {
				pos++
				if pos >= inend {
					break
				}
				hash.Update(array, pos)
			}
			matchAvailable = false
			pos++
			continue
		}

		if length >= MinMatch {
			prevLength, prevDist = length, dist
			matchAvailable = true
			pos++
			continue
		}

		store.AddLiteral(array[pos], pos)
		pos++
	}

	if matchAvailable {
		store.AddLengthDist(prevLength, prevDist, pos-1)
	}
}
