// Package synapse implements the validator-to-miner transport: task
// dispatch, streamed text reassembly, and aliveness probes.
package synapse

import (
	"time"
)

// Category selects the task kind a round runs with and which scoring
// strategy applies.
type Category string

const (
	CategoryText       Category = "text"
	CategoryImage      Category = "image"
	CategoryEmbeddings Category = "embeddings"
)

// Timeout returns the per-dispatch deadline for a category.
func (c Category) Timeout() time.Duration {
	switch c {
	case CategoryText:
		return 24 * time.Second
	case CategoryImage:
		return 35 * time.Second
	case CategoryEmbeddings:
		return 15 * time.Second
	}
	return 24 * time.Second
}

// AliveTimeout bounds the lightweight reachability probe.
const AliveTimeout = 4 * time.Second

// Peer identifies one miner for a round. The peer set is re-read from the
// metagraph every round, so a Peer is immutable once built.
type Peer struct {
	UID     int64
	Hotkey  string
	Address string // base URL of the miner's axon, e.g. http://10.0.0.1:8091
}

// ImageParams carries the image generation parameters of an image task.
type ImageParams struct {
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

// TaskRequest is one task sent to one peer.
type TaskRequest struct {
	Category Category
	Model    string
	Seed     int
	Prompt   string       // text and image categories
	Texts    []string     // embeddings category
	Image    *ImageParams // image category only
}

// ImageCompletion is the completion payload of an image task.
type ImageCompletion struct {
	URL string `json:"url"`
}

// TaskResponse is the normalized miner output for any category. Exactly one
// field is populated depending on the request category.
type TaskResponse struct {
	Text       string
	Completion *ImageCompletion
	Embeddings [][]float64
}

// TaskResult pairs a peer with its response or failure. A nil Response with
// a non-nil Err marks a timeout, transport failure, or malformed payload;
// the scoring layer collapses all of those to score 0.
type TaskResult struct {
	UID      int64
	Response *TaskResponse
	Err      error
}

// Dispatcher is the capability the round coordinator uses to reach peers.
type Dispatcher interface {
	IsAlive(peer Peer) bool
	Dispatch(peer Peer, req TaskRequest) TaskResult
}

// Config groups transport client settings.
type Config struct {
	RetryMax  int
	RetryWait time.Duration
}

// Wire types shared with the miner axon.

type TextRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Seed   int    `json:"seed"`
}

type ImageRequest struct {
	Prompt  string `json:"prompt"`
	Model   string `json:"model"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type ImageResponseBody struct {
	Completion *ImageCompletion `json:"completion"`
}

type EmbeddingsRequest struct {
	Texts []string `json:"texts"`
	Model string   `json:"model"`
}

type EmbeddingsResponseBody struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type AliveResponse struct {
	Status string `json:"status"`
}
