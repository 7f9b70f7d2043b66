package jpeg

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestExtend(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		v    uint32
		n    uint
		want int32
	}{
		{0, 0, 0},
		{0, 1, -1},
		{1, 1, 1},
		{0, 2, -3},
		{3, 2, 3},
		{2, 2, 2},
	}
	for _, tc := range cases {
		got := extend(tc.v, tc.n)
		c.Assert(got, qt.Equals, tc.want, qt.Commentf("extend(%d,%d)", tc.v, tc.n))
	}
}

// buildCanonicalTable builds a Huffman table from DHT-style per-length
// counts and a flat symbol list, used to drive a build/decode round
// trip without going through the marker parser.
func buildCanonicalTable(t *testing.T, counts [16]byte, symbols []byte) *huffmanTable {
	t.Helper()
	h := &huffmanTable{}
	copy(h.symbols[:], symbols)
	if err := h.build(counts); err != nil {
		t.Fatalf("build: %v", err)
	}
	return h
}

func TestHuffmanRoundTrip(t *testing.T) {
	c := qt.New(t)

	// Three symbols at lengths 1, 2, 2 — the standard minimal canonical
	// assignment: code "0" -> symbols[0], "10" -> symbols[1], "11" -> symbols[2].
	var counts [16]byte
	counts[0] = 1
	counts[1] = 2
	h := buildCanonicalTable(t, counts, []byte{0x05, 0x07, 0x09})

	for _, tc := range []struct {
		bits []uint32
		want byte
	}{
		{[]uint32{0}, 0x05},
		{[]uint32{1, 0}, 0x07},
		{[]uint32{1, 1}, 0x09},
	} {
		var bb bitBuilder
		for _, b := range tc.bits {
			bb.add(b, 1)
		}
		d := &decoder{data: bb.bytes()}
		got, err := h.decode(d)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, tc.want)
	}
}

// bitBuilder packs individual bits MSB-first into bytes, padding the
// final byte with 1 bits the way a real encoder's bit-stuffer would.
type bitBuilder struct {
	bits []byte
}

func (bb *bitBuilder) add(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bb.bits = append(bb.bits, byte((v>>uint(i))&1))
	}
}

func (bb *bitBuilder) bytes() []byte {
	bits := append([]byte(nil), bb.bits...)
	for len(bits)%8 != 0 {
		bits = append(bits, 1)
	}
	out := make([]byte, len(bits)/8)
	for i, b := range bits {
		if b == 1 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// TestStoreMCURowAssembly exercises storeMCU/emitMCURow directly across
// two MCU columns with non-uniform per-row content, bypassing the
// entropy decode so each block's samples are fully under the test's
// control. Each column's 8x8 block holds a distinct value per row; a row
// buffer sized one scanline tall would let the second column's write
// clobber the first column's contribution before any row is sunk. The
// buffer must be width x mcuHeight, filled by every column, and only
// sunk once the whole MCU row is complete.
func TestStoreMCURowAssembly(t *testing.T) {
	c := qt.New(t)

	d := &decoder{
		width: 16, height: 8,
		mcuWidth: 8, mcuHeight: 8,
		mcusX: 2, mcusY: 1,
		nComp: 1,
	}
	d.comp[0] = component{h: 1, v: 1, tq: 0}
	d.rowBuf = make([]uint16, d.width*d.mcuHeight)

	// Column 0: row r has raw IDCT sample value (10*r - 128), so after
	// clamp8's +128 level shift the luma sample is 10*r.
	var col0 block
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			col0[row*8+col] = int32(10*row - 128)
		}
	}
	// Column 1: row r has luma sample 10*r + 5, distinct from column 0's.
	var col1 block
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			col1[row*8+col] = int32(10*row+5) - 128
		}
	}

	d.storeMCU([maxComponents][]block{0: {col0}}, 1, 1, 0)
	d.storeMCU([maxComponents][]block{0: {col1}}, 1, 1, 1)

	var rows [][]uint16
	d.emitMCURow(0, func(y int, row []uint16) {
		rows = append(rows, append([]uint16(nil), row...))
	})
	c.Assert(rows, qt.HasLen, 8)

	for row := 0; row < 8; row++ {
		wantLeft := pack565(byte(10 * row))
		wantRight := pack565(byte(10*row + 5))
		for x := 0; x < 8; x++ {
			c.Assert(rows[row][x], qt.Equals, wantLeft, qt.Commentf("row %d col %d (left MCU)", row, x))
		}
		for x := 8; x < 16; x++ {
			c.Assert(rows[row][x], qt.Equals, wantRight, qt.Commentf("row %d col %d (right MCU)", row, x))
		}
	}
}

// pack565 packs a neutral-chroma (Cb=Cr=128) luma sample the same way
// ycbcrToRGB565 does, for comparison in tests that bypass color
// conversion's chroma math entirely.
func pack565(y byte) uint16 {
	return uint16(y&0xF8)<<8 | uint16(y&0xFC)<<3 | uint16(y>>3)
}

func TestNextByteUnstuffing(t *testing.T) {
	c := qt.New(t)

	// FF 00 unstuffs to a single FF in the entropy stream.
	d := &decoder{data: []byte{0xFF, 0x00, 0xAB}}
	c.Assert(d.nextByte(), qt.Equals, byte(0xFF))
	c.Assert(d.nextByte(), qt.Equals, byte(0xAB))

	// FF followed by a real marker byte rewinds and yields 0, leaving
	// the cursor positioned so findMarker can read the marker itself.
	d2 := &decoder{data: []byte{0xFF, 0xD9}}
	c.Assert(d2.nextByte(), qt.Equals, byte(0))
	c.Assert(d2.pos, qt.Equals, 0)
}
