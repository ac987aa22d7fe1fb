package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightAccumulatorFirstUpdateIsIdentity(t *testing.T) {
	acc := NewWeightAccumulator()

	committed := acc.Update(map[int64]float64{1: 1.0, 2: 0.0, 3: 0.5})

	assert.InDelta(t, 1.0, committed[1], 1e-9)
	assert.InDelta(t, 0.0, committed[2], 1e-9)
	assert.InDelta(t, 0.5, committed[3], 1e-9)
}

func TestWeightAccumulatorRecurrence(t *testing.T) {
	acc := NewWeightAccumulator()

	// round 1: identity
	acc.Update(map[int64]float64{1: 1.0, 2: 0.0, 3: 0.5})

	// round 2: committed = 0.3*round + 0.7*committed
	committed := acc.Update(map[int64]float64{1: 0.0, 2: 1.0, 3: 0.5})
	assert.InDelta(t, 0.7, committed[1], 1e-9)
	assert.InDelta(t, 0.3, committed[2], 1e-9)
	assert.InDelta(t, 0.5, committed[3], 1e-9)

	// round 3: same vector again
	committed = acc.Update(map[int64]float64{1: 0.0, 2: 1.0, 3: 0.5})
	assert.InDelta(t, 0.49, committed[1], 1e-9)
	assert.InDelta(t, 0.51, committed[2], 1e-9)
	assert.InDelta(t, 0.5, committed[3], 1e-9)
}

func TestWeightAccumulatorAbsentPeerDecays(t *testing.T) {
	acc := NewWeightAccumulator()
	acc.Update(map[int64]float64{1: 1.0})

	committed := acc.Update(map[int64]float64{2: 1.0})

	// peer 1 missing this round decays toward 0 but keeps its entry
	assert.InDelta(t, 0.7, committed[1], 1e-9)
	// peer 2 is new, EMA starts from 0
	assert.InDelta(t, 0.3, committed[2], 1e-9)
}

func TestWeightAccumulatorCommittedReturnsCopy(t *testing.T) {
	acc := NewWeightAccumulator()
	acc.Update(map[int64]float64{1: 0.5})

	committed := acc.Committed()
	committed[1] = 99.0

	assert.InDelta(t, 0.5, acc.Committed()[1], 1e-9)
}

func TestWeightAccumulatorRestore(t *testing.T) {
	acc := NewWeightAccumulator()
	acc.restore(map[int64]float64{1: 0.8}, true)

	committed := acc.Update(map[int64]float64{1: 0.0})
	assert.InDelta(t, 0.56, committed[1], 1e-9)
}
