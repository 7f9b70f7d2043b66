package jpeg

// RowSink receives one decoded scanline at a time, packed as RGB565:
// each pixel is one uint16 (in the host's byte order) with red in the
// high five bits and blue in the low five. The slice is only
// valid for the duration of the call — decodeScan reuses the same
// backing array for every row.
type RowSink func(y int, row []uint16)

// decodeScan drives the baseline MCU loop: for every MCU row it decodes
// each column's component blocks, applies the inverse DCT, and converts
// and writes every column's contribution into a row buffer sized to the
// full image width before emitting any of that MCU row's scanlines
// through sink — per spec, a scanline can only be completed once every
// MCU column covering it has been decoded, so sink is never called
// mid-row. Restart markers, when restartInterval is nonzero, resynchronize
// the bit reader and reset the per-component DC predictors every
// restartInterval MCUs.
func (d *decoder) decodeScan(comps []scanComponent, sink RowSink) error {
	for i := range d.dcPred {
		d.dcPred[i] = 0
	}
	d.restartCounter = d.restartInterval
	d.expectedRST = markerRST0
	d.accum = 0
	d.nbits = 0

	maxH, maxV := 1, 1
	for i := 0; i < d.nComp; i++ {
		if d.comp[i].h > maxH {
			maxH = d.comp[i].h
		}
		if d.comp[i].v > maxV {
			maxV = d.comp[i].v
		}
	}

	var blocks [maxComponents][]block
	for i := 0; i < d.nComp; i++ {
		n := d.comp[i].h * d.comp[i].v
		blocks[i] = make([]block, n)
	}

	d.rowBuf = make([]uint16, d.width*d.mcuHeight)

	for my := 0; my < d.mcusY; my++ {
		for mx := 0; mx < d.mcusX; mx++ {
			for _, sc := range comps {
				ci := sc.compIndex
				d.comp[ci].td = sc.td
				d.comp[ci].ta = sc.ta
				h, v := d.comp[ci].h, d.comp[ci].v
				for by := 0; by < v; by++ {
					for bx := 0; bx < h; bx++ {
						bi := by*h + bx
						if err := d.decodeBlock(&blocks[ci][bi], ci); err != nil {
							return err
						}
						idct(&blocks[ci][bi])
					}
				}
			}

			d.storeMCU(blocks, maxH, maxV, mx)

			if err := d.handleRestart(mx, my); err != nil {
				return err
			}
		}

		d.emitMCURow(my, sink)
	}
	return nil
}

// storeMCU converts one just-decoded MCU's blocks to RGB565 and writes
// them into the row buffer at the column offset mx*mcuWidth covers,
// clipping any columns past the image's true width. The buffer holds
// every column's contribution to the current MCU row; emitMCURow sinks
// it once the column loop in decodeScan has filled it completely.
func (d *decoder) storeMCU(blocks [maxComponents][]block, maxH, maxV, mx int) {
	yComp := blocks[0]
	yBlocksPerRow := d.comp[0].h

	var cb, cr []block
	var cbShiftX, cbShiftY, crShiftX, crShiftY int
	var cbBlocksPerRow, crBlocksPerRow int
	if d.nComp == 3 {
		cb = blocks[1]
		cr = blocks[2]
		cbBlocksPerRow = d.comp[1].h
		crBlocksPerRow = d.comp[2].h
		cbShiftX = shiftFor(maxH / d.comp[1].h)
		cbShiftY = shiftFor(maxV / d.comp[1].v)
		crShiftX = shiftFor(maxH / d.comp[2].h)
		crShiftY = shiftFor(maxV / d.comp[2].v)
	}

	baseX := mx * d.mcuWidth
	for ly := 0; ly < d.mcuHeight; ly++ {
		for lx := 0; lx < d.mcuWidth; lx++ {
			px := baseX + lx
			if px >= d.width {
				continue
			}

			yBlockCol := lx / 8
			yBlockRow := ly / 8
			ybi := yBlockRow*yBlocksPerRow + yBlockCol
			yv := clamp8(yComp[ybi][(ly%8)*8+(lx%8)])

			var cbv, crv byte = 128, 128
			if d.nComp == 3 {
				cbv = sampleChroma(cb, cbBlocksPerRow, cbShiftX, cbShiftY, lx, ly)
				crv = sampleChroma(cr, crBlocksPerRow, crShiftX, crShiftY, lx, ly)
			}

			d.rowBuf[ly*d.width+px] = ycbcrToRGB565(yv, cbv, crv)
		}
	}
}

// emitMCURow sinks every scanline the just-completed MCU row covers,
// clipped to the image's true height, now that every column has written
// its contribution to the shared row buffer.
func (d *decoder) emitMCURow(my int, sink RowSink) {
	for ly := 0; ly < d.mcuHeight; ly++ {
		py := my*d.mcuHeight + ly
		if py >= d.height {
			continue
		}
		sink(py, d.rowBuf[ly*d.width:(ly+1)*d.width])
	}
}

// handleRestart consumes a restart marker once restartInterval MCUs
// have been decoded, resetting the DC predictors and bit reader state.
// A marker whose index doesn't match the expected RST0..RST7 sequence
// is recorded in Stats rather than treated as fatal: stream corruption
// localized to a single restart interval is recoverable, and a decoder
// built for constrained devices should prefer a garbled MCU row over an
// aborted image where the bitstream otherwise resynchronizes cleanly.
func (d *decoder) handleRestart(mx, my int) error {
	if d.restartInterval == 0 {
		return nil
	}
	if mx == d.mcusX-1 && my == d.mcusY-1 {
		return nil
	}
	d.restartCounter--
	if d.restartCounter > 0 {
		return nil
	}
	d.restartCounter = d.restartInterval
	d.accum = 0
	d.nbits = 0

	marker, err := d.findMarker()
	if err != nil {
		return err
	}
	if marker < markerRST0 || marker > markerRST7 {
		return FormatError("expected restart marker")
	}
	if marker != d.expectedRST && d.stats != nil {
		d.stats.RestartMismatches++
	}
	d.expectedRST = markerRST0 + (d.expectedRST-markerRST0+1)%8

	for i := range d.dcPred {
		d.dcPred[i] = 0
	}
	return nil
}
