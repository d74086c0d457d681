package curve

// Sensitivity is a sparse gradient keyed by node index.
type Sensitivity map[int]float64

// AddScaled accumulates scale*other into s.
func (s Sensitivity) AddScaled(other Sensitivity, scale float64) {
	for j, v := range other {
		s[j] += scale * v
	}
}

// Dense expands s into a slice of length n. Indices outside [0, n) are dropped.
func (s Sensitivity) Dense(n int) []float64 {
	out := make([]float64, n)
	for j, v := range s {
		if j >= 0 && j < n {
			out[j] = v
		}
	}
	return out
}

// Sum returns the total of all entries.
func (s Sensitivity) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}
