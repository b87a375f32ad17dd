/*
Package tensor implements the small fixed-shape tensors used by the 3+1 ADM
metric pipeline. Symmetric index pairs are stored packed, lower-triangle only,
so a symmetric 4x4 costs 10 reals and the connection coefficients cost 40.
All scalars are float64; callers guarantee preconditions like det != 0.
*/
package tensor

// Vec3 is a spatial 3-vector. Whether its index is up or down is a property
// of the variable holding it, not of the type.
type Vec3 [3]float64

func (v Vec3) Add(w Vec3) (r Vec3) {
	for i := 0; i < 3; i++ {
		r[i] = v[i] + w[i]
	}
	return
}

func (v Vec3) Scale(s float64) (r Vec3) {
	for i := 0; i < 3; i++ {
		r[i] = v[i] * s
	}
	return
}

func (v Vec3) Dot(w Vec3) (d float64) {
	for i := 0; i < 3; i++ {
		d += v[i] * w[i]
	}
	return
}

// Cross is the cross product of two upper spatial vectors.
func Cross(a, b Vec3) (c Vec3) {
	c[0] = a[1]*b[2] - a[2]*b[1]
	c[1] = a[2]*b[0] - a[0]*b[2]
	c[2] = a[0]*b[1] - a[1]*b[0]
	return
}

// Vec4 is a spacetime 4-vector, index 0 being the time component.
type Vec4 [4]float64

func det22(a, b, c, d float64) float64 {
	return a*d - b*c
}

// Sym3 is a symmetric 3x3 tensor packed lower-triangular:
// (0,0) (1,0) (1,1) (2,0) (2,1) (2,2).
type Sym3 [6]float64

func sym3Index(i, j int) int {
	if i < j {
		i, j = j, i
	}
	return i*(i+1)/2 + j
}

func (s Sym3) At(i, j int) float64 {
	return s[sym3Index(i, j)]
}

func (s *Sym3) Set(i, j int, v float64) {
	s[sym3Index(i, j)] = v
}

func (s Sym3) Det() float64 {
	return s.At(0, 0)*det22(s.At(1, 1), s.At(1, 2), s.At(2, 1), s.At(2, 2)) -
		s.At(0, 1)*det22(s.At(1, 0), s.At(1, 2), s.At(2, 0), s.At(2, 2)) +
		s.At(0, 2)*det22(s.At(1, 0), s.At(1, 1), s.At(2, 0), s.At(2, 1))
}

// Inverse returns the inverse of s given its determinant. The result carries
// the opposite index positions of the input (lower in becomes upper out).
// det must be nonzero; the caller guarantees positive definiteness.
func (s Sym3) Inverse(det float64) (r Sym3) {
	r.Set(0, 0, det22(s.At(1, 1), s.At(1, 2), s.At(2, 1), s.At(2, 2))/det)
	r.Set(1, 0, det22(s.At(1, 2), s.At(1, 0), s.At(2, 2), s.At(2, 0))/det)
	r.Set(1, 1, det22(s.At(0, 0), s.At(0, 2), s.At(2, 0), s.At(2, 2))/det)
	r.Set(2, 0, det22(s.At(1, 0), s.At(1, 1), s.At(2, 0), s.At(2, 1))/det)
	r.Set(2, 1, det22(s.At(0, 1), s.At(0, 0), s.At(2, 1), s.At(2, 0))/det)
	r.Set(2, 2, det22(s.At(0, 0), s.At(0, 1), s.At(1, 0), s.At(1, 1))/det)
	return
}

// Sym4 is a symmetric 4x4 tensor packed lower-triangular:
// (0,0) (1,0) (1,1) (2,0) (2,1) (2,2) (3,0) (3,1) (3,2) (3,3).
type Sym4 [10]float64

func sym4Index(a, b int) int {
	if a < b {
		a, b = b, a
	}
	return a*(a+1)/2 + b
}

func (s Sym4) At(a, b int) float64 {
	return s[sym4Index(a, b)]
}

func (s *Sym4) Set(a, b int, v float64) {
	s[sym4Index(a, b)] = v
}

func (s Sym4) Add(o Sym4) (r Sym4) {
	for i := range s {
		r[i] = s[i] + o[i]
	}
	return
}

func (s Sym4) Sub(o Sym4) (r Sym4) {
	for i := range s {
		r[i] = s[i] - o[i]
	}
	return
}

func (s Sym4) Scale(f float64) (r Sym4) {
	for i := range s {
		r[i] = s[i] * f
	}
	return
}

// AddScaled returns s + f*o.
func (s Sym4) AddScaled(o Sym4, f float64) (r Sym4) {
	for i := range s {
		r[i] = s[i] + f*o[i]
	}
	return
}

// Conn holds connection coefficients: one upper index followed by a
// symmetric lower pair, 4 x 10 = 40 reals.
type Conn [4]Sym4

func (g Conn) At(a, b, c int) float64 {
	return g[a].At(b, c)
}

func (g *Conn) Set(a, b, c int, v float64) {
	g[a].Set(b, c, v)
}

// AddScaled returns g + f*o.
func (g Conn) AddScaled(o Conn, f float64) (r Conn) {
	for a := range g {
		r[a] = g[a].AddScaled(o[a], f)
	}
	return
}
