// Package dtw aligns two feature matrices with banded Dynamic Time Warping.
//
// Both matrices are laid out coefficients x frames. Row i of the first
// matrix is compared only against a window of Width consecutive frames of
// the second matrix whose left edge follows the diagonal floor(M*i/N). The
// cost matrix therefore has shape N x Width instead of N x M, and the
// forward pass and backtracking run in O(N*Width) time and memory, which is
// what makes multi-minute recordings (tens of thousands of frames) tractable.
//
// Local costs are cosine distances. Frames with zero energy have no
// direction; they get MaxCosineDistance (1.0) unless the caller asks for
// them to be rejected.
//
// The path runs from (0,0) to (N-1,M-1) in unit steps. If the band of the
// last row cannot reach column M-1, or the band is too narrow to connect
// consecutive rows, Align fails with ErrBandTooNarrow rather than returning a
// truncated path.
package dtw
