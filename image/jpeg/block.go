package jpeg

// decodeBlock reads one entropy-coded 8x8 block for the given component,
// dequantizes it, and leaves it in natural (unzig'd) order in b. dcPred
// is updated in place with the running DC prediction for ci.
func (d *decoder) decodeBlock(b *block, ci int) error {
	for i := range b {
		b[i] = 0
	}

	comp := &d.comp[ci]
	dcTable := &d.huff[comp.td]
	acTable := &d.huff[2+comp.ta]
	quant := &d.quant[comp.tq]

	s, err := dcTable.decode(d)
	if err != nil {
		return err
	}
	if s > 16 {
		return FormatError("bad DC magnitude category")
	}
	diff := extend(d.getBits(uint(s)), uint(s))
	d.dcPred[ci] += diff
	b[unzig[0]] = d.dcPred[ci] * quant[0]

	k := 1
	for k < blockSize {
		rs, err := acTable.decode(d)
		if err != nil {
			return err
		}
		run := int(rs >> 4)
		size := rs & 0x0F

		if size == 0 {
			if run == 15 {
				k += 16 // ZRL: sixteen zero coefficients, no EOB
				continue
			}
			break // EOB: remainder of the block is zero
		}

		k += run
		if k >= blockSize {
			return FormatError("AC run exceeds block")
		}
		ac := extend(d.getBits(uint(size)), uint(size))
		b[unzig[k]] = ac * quant[k]
		k++
	}
	return nil
}
