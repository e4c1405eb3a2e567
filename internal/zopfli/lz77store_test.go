package zopfli

import "testing"

func TestStoreAppendAndAccessors(t *testing.T) {
	s := NewStore(16)
	s.AddLiteral('a', 0)
	s.AddLengthDist(5, 100, 1)
	s.AddLiteral('b', 6)

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if !s.IsLiteral(0) || s.Length(0) != 0 || s.Dist(0) != 0 {
		t.Fatalf("element 0 is not a literal as expected")
	}
	if s.IsLiteral(1) || s.Length(1) != 5 || s.Dist(1) != 100 {
		t.Fatalf("element 1 = (len=%d,dist=%d), want (5,100)", s.Length(1), s.Dist(1))
	}
	if s.Pos(2) != 6 {
		t.Fatalf("Pos(2) = %d, want 6", s.Pos(2))
	}
}

func TestStoreByteRange(t *testing.T) {
	s := NewStore(16)
	s.AddLiteral('a', 0)
	s.AddLengthDist(10, 50, 1)
	s.AddLiteral('b', 11)

	if got := s.ByteRange(0, 3); got != 1+10+1 {
		t.Fatalf("ByteRange = %d, want 12", got)
	}
}

func TestStoreHistogramsMatchesSymbols(t *testing.T) {
	s := NewStore(16)
	for i := 0; i < 1000; i++ {
		s.AddLiteral(byte('a'+i%5), i)
	}

	ll, _ := s.Histograms(0, s.Len())
	var total uint32
	for _, c := range ll {
		total += c
	}
	if total != 1000 {
		t.Fatalf("total literal histogram count = %d, want 1000", total)
	}

	// A sub-range crossing a snapshot boundary must still sum correctly.
	subLL, _ := s.Histograms(100, 300)
	var subTotal uint32
	for _, c := range subLL {
		subTotal += c
	}
	if subTotal != 200 {
		t.Fatalf("sub-range total = %d, want 200", subTotal)
	}
}

func TestStoreResetClearsState(t *testing.T) {
	s := NewStore(4)
	s.AddLiteral('x', 0)
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", s.Len())
	}
}
