package jpeg

// huffmanTable is a canonical JPEG Huffman table (Annex C), built from the
// 16 code-length counts and a flat symbol list carried by a DHT segment.
// minCode/maxCode/valOffset are indexed by code length 1..16; maxCode[l]
// is -1 for lengths with no codes, which the decode walk uses to skip
// straight past them.
type huffmanTable struct {
	minCode   [17]int32
	maxCode   [17]int32
	valOffset [17]int32
	symbols   [256]byte
	nsymbols  int
}

// build derives the canonical code assignment from per-length symbol
// counts (counts[i] is the number of codes of length i+1) and the flat
// symbol list already stored in symbols[:nsymbols]. It follows the
// standard Annex C generate_size_table/generate_code_table construction.
func (h *huffmanTable) build(counts [16]byte) error {
	var huffsize [257]byte
	var huffcode [257]uint32

	k := 0
	for l := 0; l < 16; l++ {
		for i := 0; i < int(counts[l]); i++ {
			huffsize[k] = byte(l + 1)
			k++
		}
	}
	huffsize[k] = 0
	numCodes := k

	code := uint32(0)
	size := huffsize[0]
	k = 0
	for size != 0 {
		for huffsize[k] == size {
			huffcode[k] = code
			code++
			k++
		}
		if huffsize[k] == 0 {
			break
		}
		// code is one past the last code used at this length; it must
		// still fit in size bits, or the longer codes that follow would
		// not be prefix-free. The longest length is not checked, so an
		// all-ones code there is accepted.
		if code >= 1<<size {
			return FormatError("bad huffman code lengths")
		}
		code <<= 1
		size++
	}

	for l := 1; l <= 16; l++ {
		h.minCode[l] = 0
		h.maxCode[l] = -1
		h.valOffset[l] = 0
	}
	p := 0
	for l := 1; l <= 16; l++ {
		if counts[l-1] == 0 {
			continue
		}
		h.valOffset[l] = int32(p) - int32(huffcode[p])
		p += int(counts[l-1])
		h.minCode[l] = int32(huffcode[p-int(counts[l-1])])
		h.maxCode[l] = int32(huffcode[p-1])
	}
	if p != numCodes {
		return FormatError("huffman symbol count mismatch")
	}
	h.nsymbols = numCodes
	return nil
}

// decode walks the bitstream one bit at a time against minCode/maxCode,
// the direct canonical-table analogue of the size-by-size search Annex C
// describes; it is simple rather than fast, which this decoder accepts
// in exchange for the fixed, small lookup tables a speed-oriented
// multi-level table would cost.
func (h *huffmanTable) decode(d *decoder) (byte, error) {
	code := int32(0)
	for l := 1; l <= 16; l++ {
		code = code<<1 | int32(d.getBit())
		if h.maxCode[l] >= 0 && code <= h.maxCode[l] && code >= h.minCode[l] {
			pos := code + h.valOffset[l]
			if pos < 0 || int(pos) >= h.nsymbols {
				return 0, FormatError("huffman code out of range")
			}
			return h.symbols[pos], nil
		}
	}
	return 0, FormatError("bad huffman code")
}
