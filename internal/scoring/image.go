package scoring

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/oracle"
	"github.com/vigil-labs/vigil/internal/synapse"
)

const imageFetchTimeout = 20 * time.Second

// ImageStrategy scores generated images. Every round with responses is
// scored: the image is fetched by the URL the miner returned, then judged
// against the prompt by the oracle's image scorer. Unfetchable or missing
// images score 0.
type ImageStrategy struct {
	oracle oracle.OracleInterface
	client *retryablehttp.Client
}

func NewImageStrategy(o oracle.OracleInterface) *ImageStrategy {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = imageFetchTimeout
	client.Logger = nil
	return &ImageStrategy{oracle: o, client: client}
}

func (s *ImageStrategy) Category() synapse.Category { return synapse.CategoryImage }

func (s *ImageStrategy) ScoreRound(ctx context.Context, input RoundInput) map[int64]float64 {
	scores := zeroScores(input.Results)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, result := range input.Results {
		if result.Err != nil || result.Response == nil || result.Response.Completion == nil {
			continue
		}
		req, ok := input.Requests[result.UID]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(result synapse.TaskResult, req synapse.TaskRequest) {
			defer wg.Done()

			url := result.Response.Completion.URL
			if !s.fetchImage(ctx, url) {
				log.Warn().Int64("uid", result.UID).Str("url", url).Msg("image not fetchable, scoring 0")
				return
			}

			size := ""
			if req.Image != nil {
				size = req.Image.Size
			}
			score, err := s.oracle.ScoreImage(ctx, req.Prompt, url, size)
			if err != nil {
				log.Error().Err(err).Int64("uid", result.UID).Msg("image scoring failed, scoring 0")
				return
			}

			score = clamp01(score)
			mu.Lock()
			scores[result.UID] = score
			mu.Unlock()
			log.Debug().Int64("uid", result.UID).Float64("score", score).Msg("scored image response")
		}(result, req)
	}
	wg.Wait()

	return scores
}

// fetchImage confirms the miner's URL actually serves bytes. The body is
// drained and discarded; only fetchability matters here, the oracle judges
// content by URL.
func (s *ImageStrategy) fetchImage(ctx context.Context, url string) bool {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	n, err := io.Copy(io.Discard, resp.Body)
	return err == nil && n > 0
}
