package dataset

// Filter returns the readings that fall within r. The input is not modified
// and the result never aliases it.
func Filter(readings []Reading, r DateRange) []Reading {
	out := make([]Reading, 0)
	if r.Empty() {
		return out
	}
	for _, rd := range readings {
		if r.Contains(rd.Time) {
			out = append(out, rd)
		}
	}
	return out
}
