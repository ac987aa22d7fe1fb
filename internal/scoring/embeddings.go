package scoring

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/oracle"
	"github.com/vigil-labs/vigil/internal/synapse"
)

// EmbeddingsStrategy scores embedding vectors against a reference set the
// oracle computes for the same input texts. The comparison is vector for
// vector in input order, averaged across the batch.
type EmbeddingsStrategy struct {
	oracle oracle.OracleInterface
	model  string
	gate   Gate
}

func NewEmbeddingsStrategy(o oracle.OracleInterface, model string, gate Gate) *EmbeddingsStrategy {
	if gate == nil {
		gate = BernoulliGate(EmbeddingsGateProbability)
	}
	return &EmbeddingsStrategy{oracle: o, model: model, gate: gate}
}

func (s *EmbeddingsStrategy) Category() synapse.Category { return synapse.CategoryEmbeddings }

func (s *EmbeddingsStrategy) ScoreRound(ctx context.Context, input RoundInput) map[int64]float64 {
	scores := zeroScores(input.Results)
	if !s.gate() {
		log.Info().Msg("embeddings scoring gate closed, skipping scoring this round")
		return scores
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, result := range input.Results {
		if result.Err != nil || result.Response == nil || len(result.Response.Embeddings) == 0 {
			continue
		}
		req, ok := input.Requests[result.UID]
		if !ok || len(req.Texts) == 0 {
			continue
		}

		wg.Add(1)
		go func(result synapse.TaskResult, req synapse.TaskRequest) {
			defer wg.Done()

			reference, err := s.oracle.Embeddings(ctx, req.Texts, s.model)
			if err != nil {
				log.Error().Err(err).Int64("uid", result.UID).Msg("failed to get reference embeddings, scoring 0")
				return
			}

			score := clamp01(averageSimilarity(reference, result.Response.Embeddings))
			mu.Lock()
			scores[result.UID] = score
			mu.Unlock()
			log.Debug().Int64("uid", result.UID).Float64("score", score).Msg("scored embeddings response")
		}(result, req)
	}
	wg.Wait()

	return scores
}

// averageSimilarity compares reference and response vector for vector. A
// response with the wrong number of vectors, or nil vectors in either set,
// contributes zeros for the mismatched positions.
func averageSimilarity(reference, response [][]float64) float64 {
	if len(reference) == 0 {
		return 0.0
	}

	var total float64
	for i, ref := range reference {
		if i >= len(response) || ref == nil || response[i] == nil {
			continue
		}
		total += CalculateCosineSimilarity(ref, response[i])
	}
	return total / float64(len(reference))
}
