package pngimage

import (
	"bytes"
	"encoding/binary"
	"hash/adler32"
	"hash/crc32"
	"image"
	"image/color"

	"github.com/Blobfolio/flaca/internal/zopfli"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// colorType mirrors the PNG color type byte for the two layouts this
// encoder emits: 0 (grayscale, 8-bit) and 6 (truecolor with alpha,
// 8-bit). Every source, palette or 16-bit included, is re-emitted as one
// of these two: grayscale when every pixel is achromatic and fully
// opaque, truecolor+alpha otherwise. Samples are always written at 8
// bits: a "general purpose" encoder, not a bit-depth-preserving one.
type colorType byte

const (
	colorGray colorType = 0
	colorRGBA colorType = 6
)

// encode re-serializes img as a fresh PNG byte stream, filtering
// scanlines with strategy and compressing the filtered byte stream with
// the Zopfli encoder wrapped in a zlib container.
func encode(img image.Image, strategy filterStrategy, zOpts zopfli.Options) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	ct, bpp := chooseColorType(img)
	raw := rasterize(img, ct, bpp)

	filtered := filterScanlines(raw, w, h, bpp, strategy)
	idat := zlibWrap(filtered, zOpts)

	out := &bytes.Buffer{}
	out.Write(pngSignature)
	writeChunk(out, "IHDR", ihdrPayload(w, h, ct))
	writeChunk(out, "IDAT", idat)
	writeChunk(out, "IEND", nil)
	return out.Bytes(), nil
}

// chooseColorType picks grayscale when every pixel is achromatic and
// fully opaque, else truecolor+alpha.
func chooseColorType(img image.Image) (colorType, int) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a != 0xffff || r != g || g != bl {
				return colorRGBA, 4
			}
		}
	}
	return colorGray, 1
}

// rasterize produces the raw (unfiltered) pixel byte stream, one row
// after another, bpp bytes per pixel.
func rasterize(img image.Image, ct colorType, bpp int) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*bpp)

	idx := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			switch ct {
			case colorGray:
				out[idx] = c.R
				idx++
			default:
				out[idx] = c.R
				out[idx+1] = c.G
				out[idx+2] = c.B
				out[idx+3] = c.A
				idx += 4
			}
		}
	}
	return out
}

// filterScanlines applies strategy per row and returns the concatenated
// [filterType byte][row bytes] stream DEFLATE will compress.
func filterScanlines(raw []byte, w, h, bpp int, strategy filterStrategy) []byte {
	stride := w * bpp
	out := make([]byte, 0, h*(stride+1))

	var prev []byte
	for y := 0; y < h; y++ {
		cur := raw[y*stride : (y+1)*stride]
		ft, filtered := strategy(cur, prev, bpp)
		out = append(out, ft)
		out = append(out, filtered...)
		prev = cur
	}
	return out
}

// zlibWrap compresses payload with the Zopfli encoder and wraps it in a
// minimal zlib container (2-byte header, deflate stream, Adler-32
// trailer), matching what image/png's decoder and any RFC 1950 client
// expect inside IDAT.
func zlibWrap(payload []byte, opts zopfli.Options) []byte {
	deflate := zopfli.Deflate(payload, opts)

	out := make([]byte, 0, len(deflate)+6)
	out = append(out, 0x78, 0xda) // CMF/FLG: 32K window, maximum compression
	out = append(out, deflate...)

	sum := adler32.Checksum(payload)
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], sum)
	out = append(out, trailer[:]...)
	return out
}

func ihdrPayload(w, h int, ct colorType) []byte {
	buf := make([]byte, 13)
	binary.BigEndian.PutUint32(buf[0:4], uint32(w))
	binary.BigEndian.PutUint32(buf[4:8], uint32(h))
	buf[8] = 8 // bit depth
	buf[9] = byte(ct)
	buf[10] = 0 // compression method
	buf[11] = 0 // filter method
	buf[12] = 0 // interlace method
	return buf
}

func writeChunk(w *bytes.Buffer, typ string, payload []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	w.Write(lenBuf[:])

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(payload)

	w.WriteString(typ)
	w.Write(payload)

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	w.Write(crcBuf[:])
}
