package validator

import (
	"time"

	"github.com/vigil-labs/vigil/internal/kami"
)

// MetagraphData is the last synced metagraph plus its sync time, guarded by
// the validator mutex.
type MetagraphData struct {
	Metagraph  kami.SubnetMetagraph
	LastSynced time.Time
}

// ScoresState is the weight window persisted across restarts: the moving
// average, the open accumulation window, and how many rounds it holds.
type ScoresState struct {
	Step        int               `json:"step"`
	Sum         map[int64]float64 `json:"sum"`
	Committed   map[int64]float64 `json:"committed"`
	Initialized bool              `json:"initialized"`
}
