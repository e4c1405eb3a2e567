package zopfli

import "testing"

func decodeStore(store *Store, out []byte) []byte {
	for i := 0; i < store.Len(); i++ {
		if store.IsLiteral(i) {
			out = append(out, byte(store.LLSymbol(i)))
			continue
		}
		length, dist := store.Length(i), store.Dist(i)
		start := len(out) - dist
		for j := 0; j < length; j++ {
			out = append(out, out[start+j])
		}
	}
	return out
}

func TestGreedyLZ77RoundTrips(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog the quick brown fox jumps over the lazy dog")
	hash := NewHash()
	cache := NewCache(len(data))
	store := NewStore(len(data))

	GreedyLZ77(data, 0, len(data), hash, cache, store)

	got := decodeStore(store, nil)
	if string(got) != string(data) {
		t.Fatalf("decoded store does not round-trip:\n got: %q\nwant: %q", got, data)
	}
}

func TestGreedyLZ77EmptyRange(t *testing.T) {
	hash := NewHash()
	cache := NewCache(4)
	store := NewStore(4)
	GreedyLZ77(nil, 0, 0, hash, cache, store)
	if store.Len() != 0 {
		t.Fatalf("expected an empty store, got length %d", store.Len())
	}
}

func TestGreedyLZ77FindsBackReferences(t *testing.T) {
	data := []byte("abcdefgh abcdefgh abcdefgh")
	hash := NewHash()
	cache := NewCache(len(data))
	store := NewStore(len(data))
	GreedyLZ77(data, 0, len(data), hash, cache, store)

	foundMatch := false
	for i := 0; i < store.Len(); i++ {
		if !store.IsLiteral(i) {
			foundMatch = true
			break
		}
	}
	if !foundMatch {
		t.Fatal("expected at least one back-reference in a repetitive input")
	}
}
