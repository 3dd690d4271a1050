package easing

// Ramp builds a symmetric look-up table of the given length that rises from
// 0 along the curve over the first half and falls back over the second.
func Ramp(e Easing, length int) []float64 {
	if length <= 0 {
		return nil
	}
	fn := e.Func()
	lut := make([]float64, length)
	half := length / 2
	if half == 0 {
		lut[0] = fn(1)
		return lut
	}
	increment := 1.0 / float64(half)
	for i, j := 0, length-1; i < half; i, j = i+1, j-1 {
		value := fn(float64(i) * increment)
		lut[i] = value
		lut[j] = value
	}
	if length%2 == 1 {
		lut[half] = fn(1)
	}
	return lut
}
