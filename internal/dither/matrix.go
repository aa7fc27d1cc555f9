package dither

import (
	"fmt"
	"sync"
)

// MaxMatrixExponent bounds each matrix exponent. A 2^8 x 2^8 matrix already
// holds 65536 thresholds.
const MaxMatrixExponent = 8

// Matrix is an ordered-dither threshold matrix of 2^M by 2^N cells. Every
// integer in [0, Size) appears exactly once. Matrices are immutable.
type Matrix struct {
	M, N   int
	Width  int
	Height int
	values []int
}

// GenerateMatrix builds the threshold matrix for exponents (m, n): the
// matrix is 2^m cells wide and 2^n cells high. Non-square and
// non-power-of-four shapes are supported; the result spreads consecutive
// thresholds as far apart as the shape allows.
func GenerateMatrix(m, n int) (*Matrix, error) {
	if err := ValidateExponents(m, n); err != nil {
		return nil, err
	}

	width, height := 1<<m, 1<<n
	values := make([]int, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			values[y*width+x] = cellIndex(x, y, m, n)
		}
	}

	return &Matrix{M: m, N: n, Width: width, Height: height, values: values}, nil
}

// ValidateExponents reports whether (m, n) is an acceptable matrix size.
func ValidateExponents(m, n int) error {
	if m < 0 || n < 0 || m > MaxMatrixExponent || n > MaxMatrixExponent {
		return fmt.Errorf("%w: %dx%d (each must be in [0,%d])",
			ErrInvalidMatrixExponents, m, n, MaxMatrixExponent)
	}
	return nil
}

// cellIndex interleaves the bits of the (skewed) cell coordinates at a
// ratio of m:n, reading each coordinate from its high bit down and writing
// the result LSB first.
func cellIndex(x, y, m, n int) int {
	v, bit, offset := 0, 0, 0
	xmask, ymask := m, n

	if m == 0 || (m > n && n != 0) {
		xc := x ^ ((y << m) >> n)
		yc := y
		for bit < m+n {
			ymask--
			v |= ((yc >> ymask) & 1) << bit
			bit++
			for offset += m; offset >= n; offset -= n {
				xmask--
				v |= ((xc >> xmask) & 1) << bit
				bit++
			}
		}
		return v
	}

	xc := x
	yc := y ^ ((x << n) >> m)
	for bit < m+n {
		xmask--
		v |= ((xc >> xmask) & 1) << bit
		bit++
		for offset += n; offset >= m; offset -= m {
			ymask--
			v |= ((yc >> ymask) & 1) << bit
			bit++
		}
	}
	return v
}

// Size is the number of cells, 2^(M+N).
func (mx *Matrix) Size() int {
	return mx.Width * mx.Height
}

// At returns the raw threshold index of the cell that tiles onto (x, y).
func (mx *Matrix) At(x, y int) int {
	return mx.values[wrap(y, mx.Height)*mx.Width+wrap(x, mx.Width)]
}

// Threshold returns the normalized threshold in [0,1) for (x, y), tiling
// the matrix across the plane.
func (mx *Matrix) Threshold(x, y int) float64 {
	return float64(mx.At(x, y)) / float64(mx.Size())
}

// Values returns a row-major copy of the raw indices.
func (mx *Matrix) Values() []int {
	out := make([]int, len(mx.values))
	copy(out, mx.values)
	return out
}

// Normalized returns a row-major copy of the thresholds divided by Size.
func (mx *Matrix) Normalized() []float32 {
	out := make([]float32, len(mx.values))
	size := float32(mx.Size())
	for i, v := range mx.values {
		out[i] = float32(v) / size
	}
	return out
}

// Rows returns the raw indices as Height rows of Width values.
func (mx *Matrix) Rows() [][]int {
	values := mx.Values()
	rows := make([][]int, mx.Height)
	for y := range rows {
		rows[y] = values[y*mx.Width : (y+1)*mx.Width]
	}
	return rows
}

// String renders the matrix size as "WxH".
func (mx *Matrix) String() string {
	return fmt.Sprintf("%dx%d", mx.Width, mx.Height)
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

type matrixKey struct{ m, n int }

// MatrixCache memoizes generated matrices by exponent pair. It is safe for
// concurrent use; racing first requests for the same key all observe the
// same matrix.
type MatrixCache struct {
	mu       sync.RWMutex
	matrices map[matrixKey]*Matrix
}

// NewMatrixCache creates an empty cache.
func NewMatrixCache() *MatrixCache {
	return &MatrixCache{matrices: make(map[matrixKey]*Matrix)}
}

// Get returns the cached matrix for (m, n), generating it on first use.
func (c *MatrixCache) Get(m, n int) (*Matrix, error) {
	key := matrixKey{m, n}

	c.mu.RLock()
	mx, ok := c.matrices[key]
	c.mu.RUnlock()
	if ok {
		return mx, nil
	}

	built, err := GenerateMatrix(m, n)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.matrices[key]; ok {
		return existing, nil
	}
	c.matrices[key] = built
	return built, nil
}

// Len reports how many matrices are cached.
func (c *MatrixCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matrices)
}

var defaultCache = NewMatrixCache()

// CachedMatrix returns the matrix for (m, n) from the package-wide cache.
func CachedMatrix(m, n int) (*Matrix, error) {
	return defaultCache.Get(m, n)
}
