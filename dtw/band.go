package dtw

// Band describes which columns of the second sequence each row of the first
// sequence is compared against. Row i covers global columns
// [LeftEdges[i], LeftEdges[i]+Width), of which only those below M exist.
type Band struct {
	LeftEdges []int
	Width     int
}

// NewBand places a band of the given width around the linear diagonal of an
// n x m grid: row i is centered on floor(m*i/n) and its left edge is that
// center minus width/2, clamped at zero. Left edges never decrease.
func NewBand(n, m, width int) Band {
	leftEdges := make([]int, n)
	for i := range n {
		center := (m * i) / n
		leftEdges[i] = max(0, center-width/2)
	}
	return Band{LeftEdges: leftEdges, Width: width}
}

// Rows returns the number of rows the band covers
func (b Band) Rows() int {
	return len(b.LeftEdges)
}

// RightEdge returns the exclusive end of row i's in-matrix columns
func (b Band) RightEdge(i, m int) int {
	return min(b.LeftEdges[i]+b.Width, m)
}

// Offset returns how far the left edge moved between rows i-1 and i
func (b Band) Offset(i int) int {
	return b.LeftEdges[i] - b.LeftEdges[i-1]
}

// Local converts global column j of row i to a band column. ok is false when
// j falls outside the band.
func (b Band) Local(i, j int) (local int, ok bool) {
	local = j - b.LeftEdges[i]
	return local, local >= 0 && local < b.Width
}

// Reaches reports whether the last row's band contains column m-1, the
// terminal column of the path.
func (b Band) Reaches(m int) bool {
	if len(b.LeftEdges) == 0 {
		return false
	}
	last := b.LeftEdges[len(b.LeftEdges)-1]
	return last <= m-1 && m-1 < last+b.Width
}
