package tasksupply

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/vigil-labs/vigil/internal/synapse"
)

// Snapshot serializes every queue as a JSON object keyed by
// "<category>_<kind>", so state survives validator restarts.
func (s *Supply) Snapshot() ([]byte, error) {
	s.mu.Lock()
	keys := make([]queueKey, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	state := make(map[string][]string, len(keys))
	for _, k := range keys {
		e := s.entryFor(k)
		e.mu.Lock()
		items := make([]string, len(e.items))
		copy(items, e.items)
		e.mu.Unlock()
		state[k.String()] = items
	}
	return sonic.Marshal(state)
}

// Restore replaces queue contents with a previously snapshotted blob.
// Unknown keys are skipped so old snapshots stay loadable.
func (s *Supply) Restore(data []byte) error {
	var state map[string][]string
	if err := sonic.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("unmarshal supply state: %w", err)
	}

	for raw, items := range state {
		k, ok := parseQueueKey(raw)
		if !ok {
			continue
		}
		e := s.entryFor(k)
		e.mu.Lock()
		e.items = make([]string, len(items))
		copy(e.items, items)
		e.mu.Unlock()
	}
	return nil
}

func parseQueueKey(raw string) (queueKey, bool) {
	i := strings.LastIndex(raw, "_")
	if i <= 0 || i == len(raw)-1 {
		return queueKey{}, false
	}
	category := synapse.Category(raw[:i])
	kind := Kind(raw[i+1:])
	switch category {
	case synapse.CategoryText, synapse.CategoryImage, synapse.CategoryEmbeddings:
	default:
		return queueKey{}, false
	}
	switch kind {
	case KindThemes, KindQuestions:
	default:
		return queueKey{}, false
	}
	return queueKey{Category: category, Kind: kind}, true
}
