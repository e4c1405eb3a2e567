package zopfli

import "testing"

func TestLengthLimitedCodeLengthsRespectsMaxBits(t *testing.T) {
	counts := []uint32{1, 1, 2, 3, 5, 8, 13, 21, 34, 55}
	lengths, err := LengthLimitedCodeLengths(counts, 4)
	if err != nil {
		t.Fatalf("LengthLimitedCodeLengths: %v", err)
	}
	for i, l := range lengths {
		if l > 4 {
			t.Fatalf("symbol %d: length %d exceeds maxbits 4", i, l)
		}
	}
}

func TestLengthLimitedCodeLengthsKraftInequality(t *testing.T) {
	counts := []uint32{5, 0, 3, 0, 1, 1, 1, 1}
	lengths, err := LengthLimitedCodeLengths(counts, 15)
	if err != nil {
		t.Fatalf("LengthLimitedCodeLengths: %v", err)
	}
	sum := 0.0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		sum += 1.0 / float64(uint64(1)<<uint(l))
	}
	if sum > 1.0+1e-9 {
		t.Fatalf("Kraft sum = %v, want <= 1", sum)
	}
}

func TestLengthLimitedCodeLengthsSingleSymbol(t *testing.T) {
	counts := []uint32{0, 0, 7, 0}
	lengths, err := LengthLimitedCodeLengths(counts, 15)
	if err != nil {
		t.Fatalf("LengthLimitedCodeLengths: %v", err)
	}
	if lengths[2] != 1 {
		t.Fatalf("single surviving symbol length = %d, want 1", lengths[2])
	}
}

func TestLengthLimitedCodeLengthsTooWide(t *testing.T) {
	counts := make([]uint32, 10)
	for i := range counts {
		counts[i] = 1
	}
	_, err := LengthLimitedCodeLengths(counts, 3) // 1<<3 = 8 < 10 present symbols
	if err != ErrTreeTooWide {
		t.Fatalf("expected ErrTreeTooWide, got %v", err)
	}
}

func TestCanonicalCodesAreUnambiguous(t *testing.T) {
	lengths := []uint8{3, 3, 3, 3, 3, 2, 4, 4}
	codes := CanonicalCodes(lengths)
	seen := map[string]bool{}
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		key := formatCode(codes[i], l)
		if seen[key] {
			t.Fatalf("duplicate canonical code %s for symbol %d", key, i)
		}
		seen[key] = true
	}
}

func formatCode(code uint16, length uint8) string {
	buf := make([]byte, length)
	for i := uint8(0); i < length; i++ {
		bit := (code >> (length - 1 - i)) & 1
		if bit == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
