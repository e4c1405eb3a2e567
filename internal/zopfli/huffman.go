package zopfli

import (
	"errors"
	"sort"
)

// ErrTreeTooWide is returned by LengthLimitedCodeLengths when the number of
// used symbols cannot be represented by any prefix code bounded by maxbits
// (i.e. numSymbols > 1<<maxbits).
var ErrTreeTooWide = errors.New("zopfli: alphabet too wide for maxbits")

// pmNode is a node in the package-merge construction: either a leaf
// (isLeaf, tagging an original symbol) or a package formed by combining
// two nodes from the level below.
type pmNode struct {
	weight      uint64
	left, right *pmNode
	leaf        int
	isLeaf      bool
}

// LengthLimitedCodeLengths assigns canonical Huffman code lengths to the
// alphabet described by freq (indexed by symbol) such that no assigned
// length exceeds maxbits and the total weighted path length
// (Σ freq[i]·len[i]) is minimized. This is the boundary package-merge
// algorithm (Larmore & Hirschberg / Katajainen): symbols are treated as
// coins of denomination 2^-maxbits..2^-1, repeatedly paired and re-merged
// with fresh copies of the original leaves, one level per bit position.
//
// Symbols with freq[i] == 0 are not assigned a code (length stays 0).
// If only one symbol is used it is assigned length 1, matching DEFLATE's
// requirement that single-symbol blocks still emit one bit per symbol.
func LengthLimitedCodeLengths(freq []uint32, maxbits int) ([]uint8, error) {
	n := len(freq)
	lengths := make([]uint8, n)

	type symCount struct {
		sym   int
		count uint32
	}
	present := make([]symCount, 0, n)
	for i, c := range freq {
		if c > 0 {
			present = append(present, symCount{i, c})
		}
	}

	switch len(present) {
	case 0:
		return lengths, nil
	case 1:
		lengths[present[0].sym] = 1
		return lengths, nil
	}

	if len(present) > (1 << uint(maxbits)) {
		return nil, ErrTreeTooWide
	}

	sort.Slice(present, func(i, j int) bool {
		if present[i].count != present[j].count {
			return present[i].count < present[j].count
		}
		return present[i].sym < present[j].sym
	})

	m := len(present)
	leaves := make([]*pmNode, m)
	for i, p := range present {
		leaves[i] = &pmNode{weight: uint64(p.count), leaf: p.sym, isLeaf: true}
	}

	level := make([]*pmNode, m)
	copy(level, leaves)

	for t := maxbits; t >= 2; t-- {
		packaged := packagePairs(level)
		level = mergeNodesSorted(packaged, leaves)
	}

	need := 2*m - 2
	if need > len(level) {
		need = len(level)
	}

	counts := make([]int, n)
	for _, node := range level[:need] {
		unpackLeafCounts(node, counts)
	}

	for i, c := range counts {
		if c > 0 {
			lengths[i] = uint8(c)
		}
	}
	return lengths, nil
}

// packagePairs combines adjacent elements of a sorted node list into
// parent packages, two at a time. nodes must already be sorted ascending
// by weight; an odd trailing element is left unpaired and dropped from
// this level (it remains available via the next level's fresh leaves).
func packagePairs(nodes []*pmNode) []*pmNode {
	out := make([]*pmNode, 0, len(nodes)/2)
	for i := 0; i+1 < len(nodes); i += 2 {
		out = append(out, &pmNode{
			weight: nodes[i].weight + nodes[i+1].weight,
			left:   nodes[i],
			right:  nodes[i+1],
		})
	}
	return out
}

// mergeNodesSorted merges two ascending-sorted node slices into one.
func mergeNodesSorted(a, b []*pmNode) []*pmNode {
	out := make([]*pmNode, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].weight <= b[j].weight {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// unpackLeafCounts recursively descends a package node, incrementing
// counts[symbol] once for every leaf occurrence reached. Each occurrence
// of a leaf at the selected top level corresponds to one unit of code
// length for that symbol.
func unpackLeafCounts(n *pmNode, counts []int) {
	if n.isLeaf {
		counts[n.leaf]++
		return
	}
	unpackLeafCounts(n.left, counts)
	unpackLeafCounts(n.right, counts)
}

// CanonicalCodes assigns canonical (RFC 1951 §3.2.2) MSB-first codewords
// given a set of code lengths: codes are ordered stably by (length
// ascending, symbol ascending), assigned sequentially starting from the
// shortest length.
func CanonicalCodes(lengths []uint8) []uint16 {
	maxLen := 0
	for _, l := range lengths {
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	if maxLen == 0 {
		return make([]uint16, len(lengths))
	}

	blCount := make([]int, maxLen+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}

	nextCode := make([]int, maxLen+1)
	code := 0
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	codes := make([]uint16, len(lengths))
	for sym, l := range lengths {
		if l > 0 {
			codes[sym] = uint16(nextCode[l])
			nextCode[l]++
		}
	}
	return codes
}
