package vector

import "math"

// dot returns the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i] * b[i])
	}
	return sum
}

// euclidean returns the L2 distance between two equal-length vectors.
func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// cosineDistance returns 1 - cosine similarity for unit vectors.
// Clamped at 0 so float rounding never yields a negative distance.
func cosineDistance(a, b []float32) float64 {
	d := 1 - dot(a, b)
	if d < 0 {
		return 0
	}
	return d
}

// normalizeL2 normalizes v in place to unit norm; zero vectors are unchanged.
func normalizeL2(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x * x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// distanceFunc returns the distance function for the metric.
// Cosine assumes both inputs are unit vectors.
func distanceFunc(m Metric) func(a, b []float32) float64 {
	if m == MetricEuclidean {
		return euclidean
	}
	return cosineDistance
}
