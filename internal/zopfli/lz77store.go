package zopfli

// snapshotInterval is how often cumulative symbol histograms are
// snapshotted, allowing range queries via subtraction plus a short tail
// walk.
const (
	snapshotIntervalLL = NumLitLenSymbols
	snapshotIntervalD  = NumDistSymbols
)

// Store is the append-only LZ77 sequence: each element is either
// a literal (symbol 0-255, distance 0) or a back-reference (length
// 3-258, distance 1-32768). Two cumulative histograms (over literal/
// length and distance symbols) are snapshotted every snapshotIntervalLL/D
// elements so that bit-cost estimators can query arbitrary ranges cheaply.
type Store struct {
	litLens []uint16 // 0 for literals; match length for back-refs
	dists   []uint16 // 0 for literals
	pos     []int    // source position of each element

	llSymbol []uint16 // literal value or length symbol (257-285)
	dSymbol  []uint16 // distance symbol (0-29), 0 for literals

	llSnapshots [][NumLitLenSymbols]uint32
	dSnapshots  [][NumDistSymbols]uint32
}

// NewStore returns an empty Store with capacity pre-allocated.
func NewStore(capacity int) *Store {
	return &Store{
		litLens:     make([]uint16, 0, capacity),
		dists:       make([]uint16, 0, capacity),
		pos:         make([]int, 0, capacity),
		llSymbol:    make([]uint16, 0, capacity),
		dSymbol:     make([]uint16, 0, capacity),
		llSnapshots: [][NumLitLenSymbols]uint32{{}},
		dSnapshots:  [][NumDistSymbols]uint32{{}},
	}
}

// Len returns the number of stored elements.
func (s *Store) Len() int { return len(s.litLens) }

// Reset empties the store while retaining underlying capacity.
func (s *Store) Reset() {
	s.litLens = s.litLens[:0]
	s.dists = s.dists[:0]
	s.pos = s.pos[:0]
	s.llSymbol = s.llSymbol[:0]
	s.dSymbol = s.dSymbol[:0]
	s.llSnapshots = s.llSnapshots[:1]
	s.dSnapshots = s.dSnapshots[:1]
}

// AddLiteral appends a literal byte at source position pos.
func (s *Store) AddLiteral(lit byte, pos int) {
	s.append(0, 0, pos, uint16(lit), 0)
}

// AddLengthDist appends a back-reference of the given length/distance at
// source position pos. Invariant: length ∈ [3,258], distance ∈ [1,32768].
func (s *Store) AddLengthDist(length, dist, pos int) {
	llSym, _, _ := LengthSymbol(length)
	dSym, _, _ := DistanceSymbol(dist)
	s.append(uint16(length), uint16(dist), pos, uint16(llSym), uint16(dSym))
}

// append records one element and, every snapshotIntervalLL/D elements,
// folds the newly completed window into a fresh cumulative snapshot so
// Histograms can serve arbitrary ranges via snapshot-diff + short walk.
func (s *Store) append(length, dist uint16, pos int, llSym, dSym uint16) {
	s.litLens = append(s.litLens, length)
	s.dists = append(s.dists, dist)
	s.pos = append(s.pos, pos)
	s.llSymbol = append(s.llSymbol, llSym)
	s.dSymbol = append(s.dSymbol, dSym)

	n := len(s.litLens)
	if n%snapshotIntervalLL == 0 {
		snap := s.llSnapshots[len(s.llSnapshots)-1]
		for i := n - snapshotIntervalLL; i < n; i++ {
			snap[s.llSymbol[i]]++
		}
		s.llSnapshots = append(s.llSnapshots, snap)
	}
	if n%snapshotIntervalD == 0 {
		snap := s.dSnapshots[len(s.dSnapshots)-1]
		for i := n - snapshotIntervalD; i < n; i++ {
			if s.dists[i] != 0 {
				snap[s.dSymbol[i]]++
			}
		}
		s.dSnapshots = append(s.dSnapshots, snap)
	}
}

// Length returns the match length at index i (0 for a literal).
func (s *Store) Length(i int) int { return int(s.litLens[i]) }

// Dist returns the match distance at index i (0 for a literal).
func (s *Store) Dist(i int) int { return int(s.dists[i]) }

// Pos returns the source position of element i.
func (s *Store) Pos(i int) int { return s.pos[i] }

// IsLiteral reports whether element i is a literal.
func (s *Store) IsLiteral(i int) bool { return s.dists[i] == 0 }

// LLSymbol returns the literal/length symbol at index i: the literal
// byte value (0-255) for a literal, or the length symbol (257-285) for a
// back-reference.
func (s *Store) LLSymbol(i int) int { return int(s.llSymbol[i]) }

// DSymbol returns the distance symbol at index i (0 for a literal).
func (s *Store) DSymbol(i int) int { return int(s.dSymbol[i]) }

// ByteRange returns the number of source bytes spanned by elements
// [lstart, lend).
func (s *Store) ByteRange(lstart, lend int) int {
	n := 0
	for i := lstart; i < lend; i++ {
		if s.litLens[i] == 0 {
			n++
		} else {
			n += int(s.litLens[i])
		}
	}
	return n
}

// Histograms returns the literal/length and distance symbol histograms
// for the half-open range [lstart, lend), derived from the nearest
// snapshots plus a short tail walk: cumulative(x) is the snapshot at
// floor(x/interval) corrected by walking the remainder to x, and the
// range histogram is cumulative(lend) minus cumulative(lstart).
func (s *Store) Histograms(lstart, lend int) (ll [NumLitLenSymbols]uint32, d [NumDistSymbols]uint32) {
	llLo := s.cumulativeLL(lstart)
	llHi := s.cumulativeLL(lend)
	dLo := s.cumulativeD(lstart)
	dHi := s.cumulativeD(lend)
	for i := range ll {
		ll[i] = llHi[i] - llLo[i]
	}
	for i := range d {
		d[i] = dHi[i] - dLo[i]
	}
	return
}

func (s *Store) cumulativeLL(x int) [NumLitLenSymbols]uint32 {
	base := (x / snapshotIntervalLL) * snapshotIntervalLL
	counts := s.llSnapshots[x/snapshotIntervalLL]
	for i := base; i < x; i++ {
		counts[s.llSymbol[i]]++
	}
	return counts
}

func (s *Store) cumulativeD(x int) [NumDistSymbols]uint32 {
	base := (x / snapshotIntervalD) * snapshotIntervalD
	counts := s.dSnapshots[x/snapshotIntervalD]
	for i := base; i < x; i++ {
		if s.dists[i] != 0 {
			counts[s.dSymbol[i]]++
		}
	}
	return counts
}
