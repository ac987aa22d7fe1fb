package validator

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/scoring"
	"github.com/vigil-labs/vigil/internal/synapse"
	"github.com/vigil-labs/vigil/internal/tasksupply"
	"github.com/vigil-labs/vigil/internal/telemetry"
)

// embeddingsTextsPerTask is how many supply passages one embeddings task
// carries.
const embeddingsTextsPerTask = 4

func (v *Validator) roundLoop() {
	defer v.Wg.Done()
	for {
		if v.Ctx.Err() != nil {
			return
		}
		wait := v.runRound()
		if !v.sleep(wait) {
			return
		}
	}
}

// runRound drives one discover-dispatch-score-merge cycle and returns how
// long to wait before the next one. Any panic is logged and the round
// abandoned without touching the weight window.
func (v *Validator) runRound() (wait time.Duration) {
	wait = v.IntervalConfig.RoundPacing
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("round failed, continuing at next interval")
		}
	}()

	category := synapse.Category(v.ValidatorConfig.TaskCategory)
	strategy, ok := v.Strategies[category]
	if !ok {
		log.Error().Str("category", string(category)).Msg("no scoring strategy for configured category")
		return wait
	}

	peers := v.currentPeers()
	if len(peers) == 0 {
		log.Info().Msg("no peers in metagraph, backing off")
		return v.IntervalConfig.EmptyPeerBackoff
	}

	alive := v.discover(peers)
	if len(alive) == 0 {
		log.Info().Int("known", len(peers)).Msg("no reachable peers, backing off")
		return v.IntervalConfig.EmptyPeerBackoff
	}
	log.Info().Int("alive", len(alive)).Int("known", len(peers)).Str("category", string(category)).Msg("starting round")

	requests, results := v.dispatch(category, alive)

	scores := strategy.ScoreRound(v.Ctx, scoring.RoundInput{Requests: requests, Results: results})

	v.recordRound(category, requests, results, scores)
	v.merge(scores)

	return wait
}

// discover probes every known peer concurrently and returns the reachable
// subset. Unreachable peers are excluded from the round entirely, not
// scored as zero.
func (v *Validator) discover(peers []synapse.Peer) []synapse.Peer {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		alive []synapse.Peer
	)
	for _, peer := range peers {
		wg.Add(1)
		go func(peer synapse.Peer) {
			defer wg.Done()
			if v.Dispatcher.IsAlive(peer) {
				mu.Lock()
				alive = append(alive, peer)
				mu.Unlock()
			}
		}(peer)
	}
	wg.Wait()
	return alive
}

// dispatch pulls one task per reachable peer and submits all of them
// concurrently. A peer whose task cannot be built gets a failed result so
// the round still produces one result per peer.
func (v *Validator) dispatch(category synapse.Category, peers []synapse.Peer) (map[int64]synapse.TaskRequest, []synapse.TaskResult) {
	requests := make(map[int64]synapse.TaskRequest, len(peers))
	results := make([]synapse.TaskResult, 0, len(peers))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, peer := range peers {
		req, err := v.buildRequest(category)
		if err != nil {
			log.Error().Err(err).Int64("uid", peer.UID).Msg("failed to build task")
			results = append(results, synapse.TaskResult{UID: peer.UID, Err: err})
			continue
		}
		requests[peer.UID] = req

		wg.Add(1)
		go func(peer synapse.Peer, req synapse.TaskRequest) {
			defer wg.Done()
			result := v.Dispatcher.Dispatch(peer, req)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(peer, req)
	}
	wg.Wait()

	return requests, results
}

// buildRequest assembles one task of the given category from the supply.
func (v *Validator) buildRequest(category synapse.Category) (synapse.TaskRequest, error) {
	switch category {
	case synapse.CategoryText:
		prompt, err := v.Supply.Take(v.Ctx, category, tasksupply.KindQuestions)
		if err != nil {
			return synapse.TaskRequest{}, err
		}
		return synapse.TaskRequest{
			Category: category,
			Model:    v.OracleConfig.ChatModel,
			Seed:     taskSeed,
			Prompt:   prompt,
		}, nil

	case synapse.CategoryImage:
		prompt, err := v.Supply.Take(v.Ctx, category, tasksupply.KindQuestions)
		if err != nil {
			return synapse.TaskRequest{}, err
		}
		return synapse.TaskRequest{
			Category: category,
			Model:    v.OracleConfig.ImageModel,
			Seed:     taskSeed,
			Prompt:   prompt,
			Image:    &synapse.ImageParams{Size: "1792x1024", Quality: "standard", Style: "vivid"},
		}, nil

	case synapse.CategoryEmbeddings:
		texts := make([]string, 0, embeddingsTextsPerTask)
		for range embeddingsTextsPerTask {
			text, err := v.Supply.Take(v.Ctx, category, tasksupply.KindQuestions)
			if err != nil {
				return synapse.TaskRequest{}, err
			}
			texts = append(texts, text)
		}
		return synapse.TaskRequest{
			Category: category,
			Model:    v.OracleConfig.EmbeddingModel,
			Seed:     taskSeed,
			Texts:    texts,
		}, nil
	}

	return synapse.TaskRequest{}, fmt.Errorf("unknown task category %q", category)
}

// merge adds one round vector into the accumulation window and commits the
// windowed average every commitEvery rounds. The sum and the round counter
// reset together at commit so the average denominator always equals the
// number of merged rounds.
func (v *Validator) merge(scores map[int64]float64) {
	for uid, score := range scores {
		v.sum[uid] += score
	}
	v.step++

	log.Info().Int("step", v.step).Int("peers", len(scores)).Msg("round merged")

	if v.step < commitEvery {
		return
	}

	averaged := make(map[int64]float64, len(v.sum))
	for uid, total := range v.sum {
		averaged[uid] = total / float64(v.step)
	}

	committed := v.Accumulator.Update(averaged)
	if err := v.setWeightsOnChain(committed); err != nil {
		log.Error().Err(err).Msg("weight commit failed")
	}

	v.sum = make(map[int64]float64)
	v.step = 0
}

// recordRound forwards the round's observability record to the telemetry
// collector.
func (v *Validator) recordRound(category synapse.Category, requests map[int64]synapse.TaskRequest, results []synapse.TaskResult, scores map[int64]float64) {
	record := telemetry.RoundRecord{
		Category:   string(category),
		Prompts:    make(map[string]string, len(requests)),
		Responses:  make(map[string]string, len(results)),
		Scores:     make(map[string]float64, len(scores)),
		Timestamps: make(map[string]int64, len(results)),
	}

	for uid, req := range requests {
		key := strconv.FormatInt(uid, 10)
		if req.Category == synapse.CategoryEmbeddings {
			record.Prompts[key] = fmt.Sprintf("%d texts", len(req.Texts))
			continue
		}
		record.Prompts[key] = req.Prompt
	}

	now := time.Now().Unix()
	for _, result := range results {
		key := strconv.FormatInt(result.UID, 10)
		record.Timestamps[key] = now
		if result.Err != nil || result.Response == nil {
			continue
		}
		switch {
		case result.Response.Text != "":
			record.Responses[key] = result.Response.Text
		case result.Response.Completion != nil:
			record.Responses[key] = result.Response.Completion.URL
		case len(result.Response.Embeddings) > 0:
			record.Responses[key] = fmt.Sprintf("%d vectors", len(result.Response.Embeddings))
		}
	}

	for uid, score := range scores {
		record.Scores[strconv.FormatInt(uid, 10)] = score
	}

	v.Telemetry.Record(v.Ctx, record)
}
