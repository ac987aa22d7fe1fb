package scoring

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/oracle"
	"github.com/vigil-labs/vigil/internal/synapse"
)

// referenceTemperature pins oracle reference completions so the same prompt
// and seed yield the same reference every time.
const referenceTemperature = 0.0

// TextStrategy scores streamed text completions against an oracle reference
// for the same prompt and seed. A Bernoulli gate keeps oracle cost bounded:
// when closed, every peer scores 0 this round.
type TextStrategy struct {
	oracle oracle.OracleInterface
	model  string
	gate   Gate
}

func NewTextStrategy(o oracle.OracleInterface, model string, gate Gate) *TextStrategy {
	if gate == nil {
		gate = BernoulliGate(TextGateProbability)
	}
	return &TextStrategy{oracle: o, model: model, gate: gate}
}

func (s *TextStrategy) Category() synapse.Category { return synapse.CategoryText }

func (s *TextStrategy) ScoreRound(ctx context.Context, input RoundInput) map[int64]float64 {
	scores := zeroScores(input.Results)
	if !s.gate() {
		log.Info().Msg("text scoring gate closed, skipping scoring this round")
		return scores
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, result := range input.Results {
		if result.Err != nil || result.Response == nil || result.Response.Text == "" {
			continue
		}
		req, ok := input.Requests[result.UID]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(result synapse.TaskResult, req synapse.TaskRequest) {
			defer wg.Done()

			messages := []oracle.ChatMessage{{Role: "user", Content: req.Prompt}}
			reference, err := s.oracle.ChatCompletion(ctx, messages, referenceTemperature, s.model, req.Seed)
			if err != nil {
				log.Error().Err(err).Int64("uid", result.UID).Msg("failed to get reference completion, scoring 0")
				return
			}

			score := clamp01(TextSimilarity(reference, result.Response.Text))
			mu.Lock()
			scores[result.UID] = score
			mu.Unlock()
			log.Debug().Int64("uid", result.UID).Float64("score", score).Msg("scored text response")
		}(result, req)
	}
	wg.Wait()

	return scores
}
