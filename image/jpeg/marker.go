package jpeg

// JPEG marker codes this decoder recognizes. Markers not listed here
// (APPn, COM, DNL, and the progressive/arithmetic SOF variants) are
// either skipped by length or rejected explicitly where the spec calls
// for it.
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF0 = 0xC0
	markerSOF2 = 0xC2
	markerDHT  = 0xC4
	markerDQT  = 0xDB
	markerDRI  = 0xDD
	markerSOS  = 0xDA
	markerRST0 = 0xD0
	markerRST7 = 0xD7
)

// findMarker scans forward past any non-0xFF fill bytes and 0xFF 0xFF
// padding, returning the marker code after the first genuine 0xFF
// prefix. It is only used between segments, never inside entropy-coded
// data, where nextByte's unstuffing applies instead.
func (d *decoder) findMarker() (byte, error) {
	for {
		if d.pos >= len(d.data) {
			return 0, FormatError("unexpected end of input")
		}
		b := d.readU8()
		if b != 0xFF {
			continue
		}
		if d.pos >= len(d.data) {
			return 0, FormatError("unexpected end of input")
		}
		m := d.readU8()
		if m == 0xFF {
			d.pos--
			continue
		}
		return m, nil
	}
}

// segment reads a standard 16-bit big-endian length (inclusive of the
// length field itself) and returns the segment payload bytes.
func (d *decoder) segment() ([]byte, error) {
	if d.pos+2 > len(d.data) {
		return nil, FormatError("truncated segment length")
	}
	n := int(d.readU16())
	if n < 2 || d.pos+n-2 > len(d.data) {
		return nil, FormatError("truncated segment")
	}
	payload := d.data[d.pos : d.pos+n-2]
	d.skip(n - 2)
	return payload, nil
}

// processSOF0 parses a baseline frame header: precision, dimensions, and
// the component table (sampling factors and quantization-table index).
func (d *decoder) processSOF0(p []byte) error {
	if len(p) < 6 {
		return FormatError("short SOF0 segment")
	}
	precision := p[0]
	if precision != 8 {
		return UnsupportedError("sample precision other than 8 bits")
	}
	d.height = int(p[1])<<8 | int(p[2])
	d.width = int(p[3])<<8 | int(p[4])
	if d.width == 0 || d.height == 0 {
		return FormatError("zero-sized image")
	}
	nComp := int(p[5])
	if nComp != 1 && nComp != 3 {
		return UnsupportedError("component count other than 1 or 3")
	}
	if len(p) < 6+3*nComp {
		return FormatError("short SOF0 component table")
	}
	d.nComp = nComp
	maxH, maxV := 1, 1
	for i := 0; i < nComp; i++ {
		b := p[6+3*i:]
		h := int(b[1] >> 4)
		v := int(b[1] & 0x0F)
		if h != 1 && h != 2 || v != 1 && v != 2 {
			return UnsupportedError("sampling factor outside 1..2")
		}
		tq := int(b[2])
		if tq > maxTh {
			return FormatError("quantization table index out of range")
		}
		d.comp[i] = component{h: h, v: v, tq: tq}
		if h > maxH {
			maxH = h
		}
		if v > maxV {
			maxV = v
		}
	}
	d.mcuWidth = 8 * maxH
	d.mcuHeight = 8 * maxV
	d.mcusX = (d.width + d.mcuWidth - 1) / d.mcuWidth
	d.mcusY = (d.height + d.mcuHeight - 1) / d.mcuHeight
	return nil
}

// processDQT parses one or more quantization tables from a DQT segment,
// folding the AAN pre-scale (wquant) into each entry as it is stored so
// the IDCT stage never needs to touch it.
func (d *decoder) processDQT(p []byte) error {
	for len(p) > 0 {
		pq := p[0] >> 4
		tq := int(p[0] & 0x0F)
		if tq > maxTh {
			return FormatError("quantization table index out of range")
		}
		p = p[1:]
		var raw [blockSize]int32
		if pq == 0 {
			if len(p) < blockSize {
				return FormatError("short DQT segment")
			}
			for i := 0; i < blockSize; i++ {
				raw[i] = int32(p[i])
			}
			p = p[blockSize:]
		} else {
			if len(p) < 2*blockSize {
				return FormatError("short DQT segment")
			}
			for i := 0; i < blockSize; i++ {
				hi := uint16(p[2*i])
				lo := uint16(p[2*i+1])
				raw[i] = int32(hi<<8 | lo)
			}
			p = p[2*blockSize:]
		}
		for i := 0; i < blockSize; i++ {
			d.quant[tq][i] = (raw[i]*wquant[i] + 512) >> 10
		}
	}
	return nil
}

// processDHT parses one or more Huffman tables from a DHT segment. The
// high nibble of the class/id byte selects DC (0) or AC (1); tables are
// stored at index class*2+id, matching the layout the entropy decode
// loop in block.go indexes into.
func (d *decoder) processDHT(p []byte) error {
	for len(p) > 0 {
		if len(p) < 17 {
			return FormatError("short DHT segment")
		}
		class := p[0] >> 4
		th := int(p[0] & 0x0F)
		if class > 1 || th > maxTh {
			return FormatError("huffman table class/index out of range")
		}
		var counts [16]byte
		copy(counts[:], p[1:17])
		total := 0
		for _, c := range counts {
			total += int(c)
		}
		p = p[17:]
		if len(p) < total {
			return FormatError("short DHT symbol list")
		}
		ht := &d.huff[int(class)*2+th]
		copy(ht.symbols[:], p[:total])
		if err := ht.build(counts); err != nil {
			return err
		}
		p = p[total:]
	}
	return nil
}

// processDRI parses the restart interval segment.
func (d *decoder) processDRI(p []byte) error {
	if len(p) < 2 {
		return FormatError("short DRI segment")
	}
	d.restartInterval = int(p[0])<<8 | int(p[1])
	return nil
}

// scanComponent is one component's Huffman-table selection from an SOS
// header, indexed into d.comp by its position in the scan header (scan
// order is taken to be frame order; component IDs are not looked up).
type scanComponent struct {
	compIndex int
	td, ta    int
}

// processSOSHeader parses the scan header and returns the per-component
// table selection in scan order.
func (d *decoder) processSOSHeader(p []byte) ([]scanComponent, error) {
	if len(p) < 1 {
		return nil, FormatError("short SOS segment")
	}
	ns := int(p[0])
	if ns != d.nComp {
		return nil, UnsupportedError("scan component count differs from frame")
	}
	if len(p) < 1+2*ns+3 {
		return nil, FormatError("short SOS segment")
	}
	out := make([]scanComponent, ns)
	for i := 0; i < ns; i++ {
		b := p[1+2*i:]
		// Baseline single-scan JPEGs list scan components in frame
		// order; component IDs are otherwise opaque to this decoder.
		out[i].compIndex = i
		td := int(b[1] >> 4)
		ta := int(b[1] & 0x0F)
		if td > maxTh || ta > maxTh {
			return nil, UnsupportedError("scan huffman table index greater than 1")
		}
		out[i].td = td
		out[i].ta = ta
	}
	return out, nil
}
