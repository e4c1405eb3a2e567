package pngimage

import "math"

// filterStrategy picks, for each scanline of width bytesPerLine (pixel
// data only, no leading filter-type byte), which PNG filter type (0-4)
// to apply, given the current and previous (already-filtered-to-raw)
// scanlines and the bytes-per-pixel stride.
type filterStrategy func(cur, prev []byte, bpp int) (filterType byte, filtered []byte)

// filterStrategyConservative picks the filter minimizing the sum of
// absolute values of the signed filtered bytes (libpng's "minimum sum of
// absolute differences" heuristic) — cheap and close to optimal in
// practice.
func filterStrategyConservative(cur, prev []byte, bpp int) (byte, []byte) {
	bestType := byte(0)
	bestSum := -1
	var bestBuf []byte

	buf := make([]byte, len(cur))
	for ft := byte(0); ft <= 4; ft++ {
		applyFilter(ft, cur, prev, bpp, buf)
		sum := sumAbsSigned(buf)
		if bestSum == -1 || sum < bestSum {
			bestSum = sum
			bestType = ft
			bestBuf = append([]byte(nil), buf...)
		}
	}
	return bestType, bestBuf
}

// filterStrategyAggressive picks the filter minimizing a zeroth-order
// entropy estimate of the resulting byte stream, a more expensive and
// occasionally more accurate proxy for post-DEFLATE size than the sum-
// of-absolute-differences heuristic.
func filterStrategyAggressive(cur, prev []byte, bpp int) (byte, []byte) {
	bestType := byte(0)
	bestCost := -1.0
	var bestBuf []byte

	buf := make([]byte, len(cur))
	var hist [256]int
	for ft := byte(0); ft <= 4; ft++ {
		applyFilter(ft, cur, prev, bpp, buf)
		for i := range hist {
			hist[i] = 0
		}
		for _, b := range buf {
			hist[b]++
		}
		cost := entropyBits(hist[:], len(buf))
		if bestCost < 0 || cost < bestCost {
			bestCost = cost
			bestType = ft
			bestBuf = append([]byte(nil), buf...)
		}
	}
	return bestType, bestBuf
}

func sumAbsSigned(buf []byte) int {
	sum := 0
	for _, b := range buf {
		v := int(int8(b))
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}

func entropyBits(hist []int, total int) float64 {
	if total == 0 {
		return 0
	}
	bits := 0.0
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		bits -= float64(c) * math.Log2(p)
	}
	return bits
}

func applyFilter(ft byte, cur, prev []byte, bpp int, out []byte) {
	for i := range cur {
		var a, b, c byte
		if i >= bpp {
			a = cur[i-bpp]
		}
		if prev != nil {
			b = prev[i]
			if i >= bpp {
				c = prev[i-bpp]
			}
		}
		switch ft {
		case 0:
			out[i] = cur[i]
		case 1:
			out[i] = cur[i] - a
		case 2:
			out[i] = cur[i] - b
		case 3:
			out[i] = cur[i] - byte((int(a)+int(b))/2)
		case 4:
			out[i] = cur[i] - paeth(a, b, c)
		}
	}
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
