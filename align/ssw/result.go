package ssw

// Result is the outcome of one striped local alignment: the best score
// found plus the start/length coordinates of the aligned region on both
// the query (U) and the database sequence (V).
type Result struct {
	RawScore uint32

	UStart, USubstringLength int
	VStart, VSubstringLength int

	ForwardStrand bool
}

// Greater implements the canonical best-hit tie-break: higher score wins;
// on a score tie, the longer total aligned length wins.
func (r Result) Greater(other Result) bool {
	if r.RawScore != other.RawScore {
		return r.RawScore > other.RawScore
	}
	rLen := r.USubstringLength + r.VSubstringLength
	oLen := other.USubstringLength + other.VSubstringLength
	return rLen > oLen
}
