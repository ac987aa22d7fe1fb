package validator

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/synapse"
	chainutils "github.com/vigil-labs/vigil/internal/utils/chain_utils"
)

func (v *Validator) syncMetagraph() {
	resp, err := v.Kami.GetMetagraph(v.ValidatorConfig.Netuid)
	if err != nil {
		log.Error().Err(err).Msg("failed to sync metagraph")
		return
	}

	v.mu.Lock()
	v.MetagraphData = MetagraphData{Metagraph: resp.Data, LastSynced: time.Now()}
	v.mu.Unlock()

	log.Debug().Int("numUids", resp.Data.NumUids).Int("block", resp.Data.Block).Msg("metagraph synced")
}

func (v *Validator) syncBlock() {
	resp, err := v.Kami.GetLatestBlock()
	if err != nil {
		log.Error().Err(err).Msg("failed to sync latest block")
		return
	}

	v.mu.Lock()
	v.LatestBlock = int64(resp.Data.BlockNumber)
	v.mu.Unlock()
}

// currentPeers snapshots the last synced metagraph into a dispatchable peer
// list, excluding the validator itself.
func (v *Validator) currentPeers() []synapse.Peer {
	v.mu.Lock()
	metagraph := v.MetagraphData.Metagraph
	v.mu.Unlock()
	return chainutils.PeersFromMetagraph(&metagraph, v.ValidatorHotkey)
}
