package jpeg

// Fixed-point coefficients for the scaled Winograd/AAN 8-point IDCT, Q8
// (scale 256). These four values are the only multipliers the transform
// needs; idctC3+idctC4 stands in for the fifth classical AAN rotation
// constant so the whole butterfly is expressed with four named
// constants, reused across rows and columns.
const (
	idctC1 = 362 // 1.414213562 * 256, sqrt(2)
	idctC2 = 669 // 2.613125930 * 256
	idctC3 = 277 // 1.082392200 * 256
	idctC4 = 196 // 0.765366865 * 256
)

// idctC5 is the fifth AAN rotation constant (1.847759065 * 256 ≈ 473),
// folded together from idctC3 and idctC4 rather than named on its own.
const idctC5 = idctC3 + idctC4

// idct1D runs one 8-point inverse AAN butterfly in place over a strided
// view of the block, used once per row and once per column by idct.
func idct1D(b *block, stride, offset int) {
	s := func(i int) int32 { return b[offset+i*stride] }

	v0, v1, v2, v3 := s(0), s(2), s(4), s(6)
	v4, v5, v6, v7 := s(1), s(3), s(5), s(7)

	// Even part: a single sqrt(2) rotation between the 0/4 and 2/6 pairs.
	t0 := v0 + v2
	t1 := v0 - v2
	t3 := v1 + v3
	t2 := ((v1-v3)*idctC1)>>8 - t3
	e0 := t0 + t3
	e3 := t0 - t3
	e1 := t1 + t2
	e2 := t1 - t2

	// Odd part: the four-point rotation shared by the 1/3/5/7 lane.
	z13 := v6 + v5
	z10 := v6 - v5
	z11 := v4 + v7
	z12 := v4 - v7

	o3 := z11 + z13
	rot11 := ((z11 - z13) * idctC1) >> 8
	z5 := ((z10 + z12) * idctC5) >> 8
	rot10 := (z12*idctC3)>>8 - z5
	rot12 := z5 - (z10*idctC2)>>8

	o2 := rot12 - o3
	o1 := rot11 - o2
	o0 := rot10 + o1

	out := [8]int32{e0 + o3, e1 + o2, e2 + o1, e3 - o0, e3 + o0, e2 - o1, e1 - o2, e0 - o3}
	for i := 0; i < 8; i++ {
		b[offset+i*stride] = out[i]
	}
}

// idct performs the full 2-D inverse DCT in place: one pass over the
// eight columns, then one over the eight rows. Each 1-D pass is scale-
// preserving on its own (the only right shifts are the >>8 folded into
// the Q8 rotation constants), so a DC-only block passes straight
// through unscaled — the quantization table's wquant pre-scale is what
// makes the two passes reconstruct true sample magnitudes for
// frequencies beyond DC. Samples are left centered on 0; level shift
// and clamping to [0,255] happen in color.go, next to the RGB565 pack.
func idct(b *block) {
	for col := 0; col < 8; col++ {
		idct1D(b, 8, col)
	}
	for row := 0; row < 8; row++ {
		idct1D(b, 1, row*8)
	}
}
