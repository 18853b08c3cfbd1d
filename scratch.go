package ode

// ensureLen returns buf resized to length n, reusing its backing array
// when it already has enough capacity. Steppers use this to keep their
// stage-vector scratch space allocated once and reused across steps,
// per the resource policy in spec §5.
func ensureLen(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}
