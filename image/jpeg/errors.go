package jpeg

// FormatError reports that the input does not conform to the baseline
// JPEG bitstream grammar: a missing SOI, a truncated segment, a bad table
// index, a malformed Huffman code, and so on.
type FormatError string

func (e FormatError) Error() string { return "jpeg: invalid format: " + string(e) }

// UnsupportedError reports a structurally valid feature this decoder
// does not implement: progressive/hierarchical scans, more than 3
// components, non-8-bit precision, or sampling factors outside 1..2.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "jpeg: unsupported feature: " + string(e) }
