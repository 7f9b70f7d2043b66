package jpeg

// Probe reports the pixel width and height of a baseline JPEG stream
// without decoding any entropy-coded data, by parsing only as far as
// the first SOF0 segment.
func Probe(data []byte) (width, height int, err error) {
	d := &decoder{data: data}
	if err := d.readHeader(nil); err != nil {
		return 0, 0, err
	}
	return d.width, d.height, nil
}

// Decode decodes a baseline sequential JPEG image, delivering one
// scanline at a time to sink as it is reconstructed. It allocates a
// single row buffer sized to the image width times one MCU's pixel
// height, plus the per-component block buffers an MCU needs; nothing
// else escapes to the heap that a constrained target would not already
// expect to pay for a decode.
func Decode(data []byte, sink RowSink) error {
	return DecodeWithStats(data, sink, nil)
}

// DecodeWithStats is Decode plus an optional out-parameter for decode
// diagnostics. stats may be nil. Every call builds its own decoder, so
// concurrent calls with independent (or nil) Stats share no state:
// nothing here is process-wide or shared across calls.
func DecodeWithStats(data []byte, sink RowSink, stats *Stats) error {
	d := &decoder{data: data, stats: stats}
	return d.decode(sink)
}

// readHeader scans markers up through (and including) SOF0, dispatching
// DQT/DHT/DRI along the way since later segments before SOS may repeat
// or extend them. If sosHeader is non-nil, parsing stops at SOS and the
// scan-component table is returned through it instead.
func (d *decoder) readHeader(sosHeader *[]scanComponent) error {
	if len(d.data) < 2 || d.data[0] != 0xFF || d.data[1] != markerSOI {
		return FormatError("missing SOI marker")
	}
	d.pos = 2

	sawSOF0 := false
	for {
		marker, err := d.findMarker()
		if err != nil {
			return err
		}
		switch marker {
		case markerSOF0:
			p, err := d.segment()
			if err != nil {
				return err
			}
			if err := d.processSOF0(p); err != nil {
				return err
			}
			sawSOF0 = true
			if sosHeader == nil {
				return nil
			}
		case markerSOF2:
			return UnsupportedError("progressive or hierarchical frame")
		case markerDQT:
			p, err := d.segment()
			if err != nil {
				return err
			}
			if err := d.processDQT(p); err != nil {
				return err
			}
		case markerDHT:
			p, err := d.segment()
			if err != nil {
				return err
			}
			if err := d.processDHT(p); err != nil {
				return err
			}
		case markerDRI:
			p, err := d.segment()
			if err != nil {
				return err
			}
			if err := d.processDRI(p); err != nil {
				return err
			}
		case markerSOS:
			if !sawSOF0 {
				return FormatError("SOS before SOF0")
			}
			p, err := d.segment()
			if err != nil {
				return err
			}
			sc, err := d.processSOSHeader(p)
			if err != nil {
				return err
			}
			*sosHeader = sc
			return nil
		case markerEOI:
			return FormatError("unexpected EOI before SOS")
		default:
			if _, err := d.segment(); err != nil {
				return err
			}
		}
	}
}

// decode runs the full pipeline: header through SOF0 and every
// preceding table segment, the SOS header, and then the entropy-coded
// scan itself.
func (d *decoder) decode(sink RowSink) error {
	var sc []scanComponent
	if err := d.readHeader(&sc); err != nil {
		return err
	}
	return d.decodeScan(sc, sink)
}
