// Package chainutils holds metagraph helpers shared by the validator and
// the weight-commit path.
package chainutils

import (
	"fmt"

	"github.com/vigil-labs/vigil/internal/kami"
	"github.com/vigil-labs/vigil/internal/synapse"
)

// PeersFromMetagraph converts every served axon in the metagraph into a
// dispatchable peer. Axons with no published endpoint are skipped; the
// validator's own hotkey is excluded so it never queries itself.
func PeersFromMetagraph(metagraph *kami.SubnetMetagraph, ownHotkey string) []synapse.Peer {
	peers := make([]synapse.Peer, 0, len(metagraph.Axons))
	for uid, axon := range metagraph.Axons {
		if uid >= len(metagraph.Hotkeys) {
			break
		}
		hotkey := metagraph.Hotkeys[uid]
		if hotkey == ownHotkey {
			continue
		}
		if axon.IP == "" || axon.IP == "0.0.0.0" || axon.Port == 0 {
			continue
		}
		peers = append(peers, synapse.Peer{
			UID:     int64(uid),
			Hotkey:  hotkey,
			Address: fmt.Sprintf("http://%s:%d", axon.IP, axon.Port),
		})
	}
	return peers
}

// UIDForHotkey returns the metagraph index of a hotkey, or -1 when the
// hotkey is not registered.
func UIDForHotkey(metagraph *kami.SubnetMetagraph, hotkey string) int {
	for uid, h := range metagraph.Hotkeys {
		if h == hotkey {
			return uid
		}
	}
	return -1
}

// IsRegistered reports whether the hotkey holds a UID on the subnet.
func IsRegistered(metagraph *kami.SubnetMetagraph, hotkey string) bool {
	return UIDForHotkey(metagraph, hotkey) >= 0
}

// GetColdkeyForHotkey returns the coldkey paired with a registered hotkey.
func GetColdkeyForHotkey(metagraph *kami.SubnetMetagraph, hotkey string) string {
	uid := UIDForHotkey(metagraph, hotkey)
	if uid < 0 || uid >= len(metagraph.Coldkeys) {
		return ""
	}
	return metagraph.Coldkeys[uid]
}
