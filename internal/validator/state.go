package validator

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

const (
	supplyStateKey = "vigil:supply_state"
	scoresStateKey = "vigil:scores_state"
)

// loadState restores the task supply queues and the weight window from
// Redis. Missing keys mean a fresh start, not an error.
func (v *Validator) loadState(ctx context.Context) error {
	supplyBlob, err := v.Redis.Get(ctx, supplyStateKey)
	if err != nil {
		return fmt.Errorf("load supply state: %w", err)
	}
	if supplyBlob != "" {
		if err := v.Supply.Restore([]byte(supplyBlob)); err != nil {
			log.Warn().Err(err).Msg("discarding unreadable supply state")
		} else {
			log.Info().Msg("task supply state restored")
		}
	}

	scoresBlob, err := v.Redis.Get(ctx, scoresStateKey)
	if err != nil {
		return fmt.Errorf("load scores state: %w", err)
	}
	if scoresBlob != "" {
		var state ScoresState
		if err := sonic.Unmarshal([]byte(scoresBlob), &state); err != nil {
			log.Warn().Err(err).Msg("discarding unreadable scores state")
			return nil
		}
		v.step = state.Step
		v.sum = state.Sum
		if v.sum == nil {
			v.sum = make(map[int64]float64)
		}
		v.Accumulator.restore(state.Committed, state.Initialized)
		log.Info().Int("step", state.Step).Int("peers", len(state.Committed)).Msg("scores state restored")
	}

	return nil
}

// saveState persists the task supply queues and the weight window to Redis
// at graceful shutdown.
func (v *Validator) saveState(ctx context.Context) error {
	supplyBlob, err := v.Supply.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot supply: %w", err)
	}
	if err := v.Redis.Set(ctx, supplyStateKey, string(supplyBlob), 0); err != nil {
		return fmt.Errorf("save supply state: %w", err)
	}

	committed, initialized := v.Accumulator.state()
	state := ScoresState{
		Step:        v.step,
		Sum:         v.sum,
		Committed:   committed,
		Initialized: initialized,
	}
	scoresBlob, err := sonic.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal scores state: %w", err)
	}
	if err := v.Redis.Set(ctx, scoresStateKey, string(scoresBlob), 0); err != nil {
		return fmt.Errorf("save scores state: %w", err)
	}

	log.Info().Msg("validator state persisted")
	return nil
}
