// Package validator implements the validator runtime: metagraph sync, the
// round loop, score accumulation, and weight commits.
package validator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/config"
	"github.com/vigil-labs/vigil/internal/kami"
	"github.com/vigil-labs/vigil/internal/scoring"
	"github.com/vigil-labs/vigil/internal/synapse"
	"github.com/vigil-labs/vigil/internal/tasksupply"
	"github.com/vigil-labs/vigil/internal/telemetry"
	chainutils "github.com/vigil-labs/vigil/internal/utils/chain_utils"
	"github.com/vigil-labs/vigil/internal/utils/redis"
)

const (
	// commitEvery is how many merged rounds a weight window holds.
	commitEvery = 5

	// taskSeed pins miner generation and oracle references to the same
	// sampling path.
	taskSeed = 1234

	weightsVersionKey = 0
)

// Validator coordinates task rounds and on-chain state for a subnet.
type Validator struct {
	Kami       kami.KamiInterface
	Redis      redis.RedisInterface
	Supply     *tasksupply.Supply
	Dispatcher synapse.Dispatcher
	Telemetry  telemetry.Recorder

	Strategies  map[synapse.Category]scoring.Strategy
	Accumulator *WeightAccumulator

	// Chain global state
	LatestBlock     int64
	MetagraphData   MetagraphData
	ValidatorHotkey string

	IntervalConfig  *config.IntervalConfig
	ValidatorConfig *config.ValidatorEnvConfig
	OracleConfig    *config.OracleEnvConfig

	Ctx    context.Context
	Cancel context.CancelFunc
	Wg     sync.WaitGroup
	done   chan struct{}

	mu sync.Mutex // guards MetagraphData and LatestBlock

	// weight window, touched only by the round loop
	step int
	sum  map[int64]float64
}

// New constructs a Validator and verifies the hotkey is registered on the
// subnet. Registration failure is fatal to the caller.
func New(
	cfg *config.AppConfig,
	k kami.KamiInterface,
	r redis.RedisInterface,
	supply *tasksupply.Supply,
	dispatcher synapse.Dispatcher,
	strategies map[synapse.Category]scoring.Strategy,
	recorder telemetry.Recorder,
) (*Validator, error) {
	keyringData, err := k.GetKeyringPair()
	if err != nil {
		return nil, fmt.Errorf("get validator keyring pair: %w", err)
	}
	hotkey := keyringData.Data.KeyringPair.Address

	metagraphData, err := k.GetMetagraph(cfg.ValidatorEnvConfig.Netuid)
	if err != nil {
		return nil, fmt.Errorf("get metagraph: %w", err)
	}
	if !chainutils.IsRegistered(&metagraphData.Data, hotkey) {
		return nil, fmt.Errorf("hotkey %s is not registered on netuid %d", hotkey, cfg.ValidatorEnvConfig.Netuid)
	}

	log.Info().Msgf("Validator hotkey %s loaded!", hotkey)

	ctx, cancel := context.WithCancel(context.Background())

	v := &Validator{
		Kami:       k,
		Redis:      r,
		Supply:     supply,
		Dispatcher: dispatcher,
		Telemetry:  recorder,

		Strategies:  strategies,
		Accumulator: NewWeightAccumulator(),

		MetagraphData:   MetagraphData{Metagraph: metagraphData.Data, LastSynced: time.Now()},
		ValidatorHotkey: hotkey,

		IntervalConfig:  config.NewIntervalConfig(cfg.ValidatorEnvConfig.Environment),
		ValidatorConfig: &cfg.ValidatorEnvConfig,
		OracleConfig:    &cfg.OracleEnvConfig,

		Ctx:    ctx,
		Cancel: cancel,
		done:   make(chan struct{}),

		sum: make(map[int64]float64),
	}

	if err := v.loadState(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to load persisted state, starting fresh")
	}

	return v, nil
}

// runTicker runs a function periodically until the provided context is
// canceled. fn runs in its own goroutine so the ticker loop can exit
// quickly when the context is canceled.
func (v *Validator) runTicker(ctx context.Context, d time.Duration, fn func()) {
	defer v.Wg.Done()
	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			go fn()
		}
	}
}

// Start kicks off the background sync routines and the round loop.
func (v *Validator) Start() {
	v.Wg.Add(1)
	go v.runTicker(v.Ctx, v.IntervalConfig.MetagraphInterval, func() {
		v.syncMetagraph()
	})

	v.Wg.Add(1)
	go v.runTicker(v.Ctx, v.IntervalConfig.BlockInterval, func() {
		v.syncBlock()
	})

	v.Wg.Add(1)
	go v.roundLoop()
}

// Stop cancels background routines, waits for them, and persists state.
// Done is closed only after the state write finishes, so callers must not
// tear down shared clients until Done is signaled.
func (v *Validator) Stop() {
	if v.Cancel != nil {
		v.Cancel()
	}
	v.Wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.saveState(ctx); err != nil {
		log.Error().Err(err).Msg("failed to persist state at shutdown")
	}

	close(v.done)
}

// Done is closed when Stop has fully finished, state write included.
func (v *Validator) Done() <-chan struct{} {
	return v.done
}

// sleep waits for d or until the validator context is canceled, reporting
// whether the wait completed.
func (v *Validator) sleep(d time.Duration) bool {
	select {
	case <-v.Ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
