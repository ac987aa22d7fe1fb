package validator

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/kami"
	"github.com/vigil-labs/vigil/internal/scoring"
	chainutils "github.com/vigil-labs/vigil/internal/utils/chain_utils"
)

// WeightAccumulator maintains the exponential moving average of per-peer
// round scores. The first update copies the vector; every later update
// decays toward the new vector elementwise. Peers are never removed: one
// that stops responding decays toward 0 but keeps its entry.
type WeightAccumulator struct {
	alpha       float64
	initialized bool
	committed   map[int64]float64
}

func NewWeightAccumulator() *WeightAccumulator {
	return &WeightAccumulator{
		alpha:     scoring.EmaAlpha,
		committed: make(map[int64]float64),
	}
}

// Update folds one averaged round vector into the moving average and
// returns a copy of the committed vector.
func (a *WeightAccumulator) Update(scores map[int64]float64) map[int64]float64 {
	if !a.initialized {
		for uid, score := range scores {
			a.committed[uid] = score
		}
		a.initialized = true
		return a.Committed()
	}

	// union of known peers and this round's peers; absent peers decay
	for uid := range scores {
		if _, ok := a.committed[uid]; !ok {
			a.committed[uid] = 0
		}
	}
	for uid, prev := range a.committed {
		a.committed[uid] = a.alpha*scores[uid] + (1-a.alpha)*prev
	}

	return a.Committed()
}

// Committed returns a copy of the current moving-average vector.
func (a *WeightAccumulator) Committed() map[int64]float64 {
	out := make(map[int64]float64, len(a.committed))
	for uid, w := range a.committed {
		out[uid] = w
	}
	return out
}

func (a *WeightAccumulator) state() (map[int64]float64, bool) {
	return a.Committed(), a.initialized
}

func (a *WeightAccumulator) restore(committed map[int64]float64, initialized bool) {
	a.committed = make(map[int64]float64, len(committed))
	for uid, w := range committed {
		a.committed[uid] = w
	}
	a.initialized = initialized
}

// setWeightsOnChain converts the committed vector to u16 weights and
// submits them. Failures are logged; the commit is fire and forget.
func (v *Validator) setWeightsOnChain(committed map[int64]float64) error {
	uids := make([]int64, 0, len(committed))
	for uid := range committed {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	weights := make([]float64, len(uids))
	for i, uid := range uids {
		weights[i] = committed[uid]
	}
	weights = chainutils.ClampNegativeWeights(weights)

	emitUids, emitWeights, err := chainutils.ConvertWeightsAndUidsForEmit(uids, weights)
	if err != nil {
		return fmt.Errorf("convert weights for emit: %w", err)
	}
	if len(emitUids) == 0 {
		log.Info().Msg("all weights zero, nothing to commit")
		return nil
	}

	resp, err := v.Kami.SetWeights(kami.SetWeightsParams{
		Netuid:     v.ValidatorConfig.Netuid,
		Dests:      emitUids,
		Weights:    emitWeights,
		VersionKey: weightsVersionKey,
	})
	if err != nil {
		return fmt.Errorf("set weights: %w", err)
	}

	log.Info().Str("extrinsic", resp.Data).Int("peers", len(emitUids)).Msg("weights committed on chain")
	return nil
}
