// Package jpeg decodes baseline sequential JPEG images directly to
// packed RGB565 scanlines, for targets too small to hold a decoded
// image in memory. Its largest allocation per call is a row buffer
// sized to the image width times one MCU's pixel height, wide enough
// to hold every MCU column's contribution to a scanline before it is
// sunk; it is not the only one, as the per-component MCU block buffers
// and the scan-header component table are allocated separately. It
// never touches a float or a general-purpose compression
// library. There is no progressive,
// hierarchical, arithmetic-coded, or CMYK support; see the package's
// design notes for the full list of what this trades away to fit in a
// couple of kilobytes of static state.
package jpeg

const blockSize = 64
const maxComponents = 3
const maxTh = 1 // highest supported quantization/Huffman table index

// block holds one 8x8 block of coefficients, in natural (row-major)
// order, wide enough to carry intermediate IDCT sums without overflow.
type block [blockSize]int32

// unzig maps a zig-zag scan position to its natural-order index within
// an 8x8 block; this is the fixed permutation JPEG entropy coding scans
// diagonally by.
var unzig = [blockSize]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// wquant is the fixed Winograd/AAN scale table, in zig-zag order and Q10
// fixed point (entries are round(1024 * aan[row]*aan[col]) for the
// natural row/col of each zig-zag position, aan being the standard
// 1.0/1.387039845/1.306562965/1.175875602/1.0/0.785694958/0.541196100/
// 0.275899379 per-frequency scale factors). It is folded into every
// quantization table entry once, at DQT parse time, so the IDCT itself
// never has to touch it.
var wquant = [blockSize]int32{
	1024, 1420, 1420, 1338, 1970, 1338, 1204, 1856,
	1856, 1204, 1024, 1670, 1748, 1670, 1024, 805,
	1420, 1573, 1573, 1420, 805, 554, 1116, 1338,
	1416, 1338, 1116, 554, 283, 769, 1051, 1204,
	1204, 1051, 769, 283, 392, 724, 946, 1024,
	946, 724, 392, 369, 652, 805, 805, 652,
	369, 332, 554, 632, 554, 332, 283, 435,
	435, 283, 222, 300, 222, 153, 153, 78,
}

// component is the per-component frame state recorded from SOF0 (h, v,
// tq) and SOS (td, ta).
type component struct {
	h, v   int
	tq     int
	td, ta int
}

// Stats carries optional decode diagnostics. A nil *Stats passed to
// DecodeWithStats means the caller does not want them. A Stats value is
// never shared or retained by the decoder past the call that fills it,
// so independent concurrent decodes using independent Stats (or none)
// never touch shared state.
type Stats struct {
	// RestartMismatches counts restart markers encountered with an index
	// other than the expected one. Mismatches are not fatal (spec's
	// open question on restart validation resolves to log-and-ignore),
	// but a caller that cares can check this after DecodeWithStats returns.
	RestartMismatches int
}

// decoder holds all per-decode state as a single flat aggregate, the
// bit reader and row buffer borrowed sub-views of it rather than
// independent allocations. A decoder is used for exactly one Decode (or
// Probe) call and then discarded.
type decoder struct {
	data []byte
	pos  int

	accum uint32
	nbits uint

	width, height int
	nComp         int
	comp          [maxComponents]component

	quant [2]block
	huff  [4]huffmanTable

	mcuWidth, mcuHeight int
	mcusX, mcusY        int

	dcPred [maxComponents]int32

	restartInterval int
	restartCounter  int
	expectedRST     byte

	rowBuf []uint16

	stats *Stats
}

func shiftFor(samplingFactor int) int {
	if samplingFactor == 2 {
		return 1
	}
	return 0
}
