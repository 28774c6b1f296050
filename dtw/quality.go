package dtw

import "math"

// Quality summarizes the shape of an alignment path
type Quality struct {
	// PathEfficiency is max(N, M) / len(Path); 1.0 for a pure diagonal
	PathEfficiency float64 `json:"path_efficiency"`

	// DiagonalRatio is the share of steps that advance both sequences
	DiagonalRatio float64 `json:"diagonal_ratio"`

	// AverageCost is the terminal cost divided by the path length
	AverageCost float64 `json:"average_cost"`
}

// Quality calculates quality metrics for the alignment
func (r *Result) Quality() Quality {
	if r == nil || len(r.Path) == 0 {
		return Quality{}
	}

	var q Quality
	expected := math.Max(float64(r.QueryLength), float64(r.RefLength))
	q.PathEfficiency = expected / float64(len(r.Path))

	if len(r.Path) > 1 {
		diagonal := 0
		for k := 1; k < len(r.Path); k++ {
			if r.Path[k].I > r.Path[k-1].I && r.Path[k].J > r.Path[k-1].J {
				diagonal++
			}
		}
		q.DiagonalRatio = float64(diagonal) / float64(len(r.Path)-1)
	}

	q.AverageCost = r.Cost / float64(len(r.Path))
	return q
}

// ReferenceFrames maps every query frame to the reference frames it is
// aligned with. The result has QueryLength entries, each non-empty and
// sorted.
func (r *Result) ReferenceFrames() [][]int {
	out := make([][]int, r.QueryLength)
	for _, c := range r.Path {
		out[c.I] = append(out[c.I], c.J)
	}
	return out
}
