// Package oracle wraps the generative oracle sidecar used both to produce
// task content and to judge miner responses. Oracle failures degrade to
// empty results at this boundary; they never abort a round.
package oracle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/config"
)

const (
	chatAttempts       = 2
	chatRetryDelay     = 500 * time.Millisecond
	embeddingBatchSize = 10
)

// OracleInterface is the oracle capability consumed by the task supply and
// the scoring strategies.
type OracleInterface interface {
	ChatCompletion(ctx context.Context, messages []ChatMessage, temperature float64, model string, seed int) (string, error)
	Embeddings(ctx context.Context, texts []string, model string) ([][]float64, error)
	ScoreImage(ctx context.Context, prompt, imageURL, size string) (float64, error)
}

// Oracle is a client for the oracle sidecar's OpenAI-compatible API.
type Oracle struct {
	cfg    *config.OracleEnvConfig
	client *resty.Client
}

func NewOracle(cfg *config.OracleEnvConfig) (*Oracle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	client := resty.New().
		SetBaseURL(cfg.OracleAPIUrl).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTimeout(cfg.OracleTimeout)
	if cfg.OracleAPIKey != "" {
		client.SetAuthToken(cfg.OracleAPIKey)
	}

	return &Oracle{cfg: cfg, client: client}, nil
}

// ChatCompletion asks the oracle for a completion. The call is retried once
// on failure; the final error is returned with an empty string so callers
// can treat "" as no answer.
func (o *Oracle) ChatCompletion(ctx context.Context, messages []ChatMessage, temperature float64, model string, seed int) (string, error) {
	body := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		Seed:        seed,
	}

	var lastErr error
	for attempt := 0; attempt < chatAttempts; attempt++ {
		var out chatCompletionResponse
		resp, err := o.client.R().SetContext(ctx).
			SetBody(body).
			SetResult(&out).
			Post("/v1/chat/completions")
		if err != nil {
			lastErr = err
		} else if resp.IsError() {
			lastErr = fmt.Errorf("chat completion status %d: %s", resp.StatusCode(), resp.String())
		} else if len(out.Choices) == 0 {
			lastErr = fmt.Errorf("chat completion returned no choices")
		} else {
			return out.Choices[0].Message.Content, nil
		}

		log.Info().Err(lastErr).Int("attempt", attempt+1).Msg("oracle chat completion failed")
		if attempt == chatAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(chatRetryDelay):
		}
	}
	return "", lastErr
}

// Embeddings embeds texts in batches of 10, all batches in flight at once.
// A failed batch is logged and its slots left nil; result order matches the
// input order so callers can compare vector-for-vector.
func (o *Oracle) Embeddings(ctx context.Context, texts []string, model string) ([][]float64, error) {
	out := make([][]float64, len(texts))

	var wg sync.WaitGroup
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := min(start+embeddingBatchSize, len(texts))
		batch := texts[start:end]

		wg.Add(1)
		go func(offset int, batch []string) {
			defer wg.Done()
			vectors, err := o.embedBatch(ctx, batch, model)
			if err != nil {
				log.Error().Err(err).Int("offset", offset).Msg("embedding batch failed")
				return
			}
			for i, v := range vectors {
				out[offset+i] = v
			}
		}(start, batch)
	}
	wg.Wait()

	return out, nil
}

func (o *Oracle) embedBatch(ctx context.Context, batch []string, model string) ([][]float64, error) {
	// indexes maps a filtered position back to its slot in batch so blank
	// texts do not shift the vectors that follow them
	filtered := make([]string, 0, len(batch))
	indexes := make([]int, 0, len(batch))
	for i, t := range batch {
		if t != "" {
			filtered = append(filtered, t)
			indexes = append(indexes, i)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("batch contains only empty texts")
	}

	var out embeddingsResponse
	resp, err := o.client.R().SetContext(ctx).
		SetBody(embeddingsRequest{Model: model, Input: filtered}).
		SetResult(&out).
		Post("/v1/embeddings")
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("embeddings status %d: %s", resp.StatusCode(), resp.String())
	}

	vectors := make([][]float64, len(batch))
	for _, item := range out.Data {
		if item.Index >= 0 && item.Index < len(indexes) {
			vectors[indexes[item.Index]] = item.Embedding
		}
	}
	return vectors, nil
}

// ScoreImage asks the oracle's image judge how well a generated image
// matches its prompt. The score is already in [0,1].
func (o *Oracle) ScoreImage(ctx context.Context, prompt, imageURL, size string) (float64, error) {
	var out imageScoreResponse
	resp, err := o.client.R().SetContext(ctx).
		SetBody(imageScoreRequest{Prompt: prompt, URL: imageURL, Size: size}).
		SetResult(&out).
		Post("/v1/score/image")
	if err != nil {
		return 0, fmt.Errorf("image score: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("image score status %d: %s", resp.StatusCode(), resp.String())
	}
	return out.Score, nil
}
