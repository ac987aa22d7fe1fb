package telemetry

import "context"

// RoundRecord is the observability payload produced after each scored
// round: what was asked, what came back, and what it scored. Keys are peer
// UIDs rendered as decimal strings.
type RoundRecord struct {
	Category        string             `json:"category"`
	ValidatorHotkey string             `json:"validator_hotkey"`
	Prompts         map[string]string  `json:"prompts"`
	Responses       map[string]string  `json:"responses"`
	Scores          map[string]float64 `json:"scores"`
	Timestamps      map[string]int64   `json:"timestamps"`
}

// Recorder accepts round records. Implementations must swallow their own
// failures; telemetry is never allowed to affect scoring or weights.
type Recorder interface {
	Record(ctx context.Context, record RoundRecord)
}
