package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CalculateCosineSimilarity returns the cosine of the angle between a and b,
// or 0 when the vectors differ in length or either has zero norm.
func CalculateCosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	dotProduct := floats.Dot(a, b)
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dotProduct / (normA * normB)
	if math.IsNaN(sim) {
		return 0.0
	}
	return sim
}
