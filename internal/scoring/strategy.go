// Package scoring contains the per-category strategies that turn miner
// responses into scores in [0, 1].
package scoring

import (
	"context"
	"math/rand/v2"

	"github.com/vigil-labs/vigil/internal/synapse"
)

const (
	// EmaAlpha is the smoothing factor of the moving-average weights.
	EmaAlpha = 0.3

	// TextGateProbability is the chance a text round gets scored at all.
	// Judging text with the oracle is the most expensive path, so most
	// rounds skip it and score everyone zero.
	TextGateProbability = 1.0 / 8.0

	// EmbeddingsGateProbability is the chance an embeddings round gets
	// scored.
	EmbeddingsGateProbability = 1.0 / 1.1
)

// RoundInput is everything a strategy needs to score one round: the request
// sent to each peer and the results that came back.
type RoundInput struct {
	Requests map[int64]synapse.TaskRequest
	Results  []synapse.TaskResult
}

// Strategy scores one round of a single category. Implementations must
// isolate per-peer failures: a bad response scores 0, it never fails the
// round or the other peers.
type Strategy interface {
	Category() synapse.Category
	ScoreRound(ctx context.Context, input RoundInput) map[int64]float64
}

// Gate decides once per round whether responses are scored at all. It is a
// plain function so tests can pin it open or closed.
type Gate func() bool

// BernoulliGate returns a gate that opens with probability p.
func BernoulliGate(p float64) Gate {
	return func() bool {
		return rand.Float64() < p
	}
}

// AlwaysOpen is the gate for categories scored every round.
func AlwaysOpen() bool { return true }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// zeroScores builds the all-zero score vector over every peer in the round.
func zeroScores(results []synapse.TaskResult) map[int64]float64 {
	scores := make(map[int64]float64, len(results))
	for _, r := range results {
		scores[r.UID] = 0
	}
	return scores
}
