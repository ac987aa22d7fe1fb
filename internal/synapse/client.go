package synapse

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Client dispatches tasks to miner axons over HTTP. Failures of any kind are
// folded into the returned TaskResult so one bad peer can never take down a
// round.
type Client struct {
	httpClient   *resty.Client
	streamClient *resty.Client
	cfg          Config
}

func NewClient(cfg Config) *Client {
	cli := resty.New()
	cli.SetRetryCount(cfg.RetryMax)
	cli.SetRetryWaitTime(cfg.RetryWait)
	cli.SetRetryMaxWaitTime(cfg.RetryWait * 2)
	cli.SetHeader("Accept-Encoding", "zstd")

	// streamed responses are read manually, chunk list by chunk list
	stream := resty.New()
	stream.SetDoNotParseResponse(true)

	return &Client{httpClient: cli, streamClient: stream, cfg: cfg}
}

// IsAlive probes a peer's axon with a short deadline. Unreachable peers are
// excluded from the round entirely rather than scored 0.
func (c *Client) IsAlive(peer Peer) bool {
	ctx, cancel := context.WithTimeout(context.Background(), AliveTimeout)
	defer cancel()

	resp, err := c.httpClient.R().SetContext(ctx).Get(peer.Address + "/isalive")
	if err != nil {
		log.Debug().Err(err).Int64("uid", peer.UID).Msg("aliveness probe failed")
		return false
	}
	return resp.StatusCode() < 300
}

// Dispatch sends one task to one peer, bounded by the category deadline.
func (c *Client) Dispatch(peer Peer, req TaskRequest) TaskResult {
	ctx, cancel := context.WithTimeout(context.Background(), req.Category.Timeout())
	defer cancel()

	var (
		resp *TaskResponse
		err  error
	)
	switch req.Category {
	case CategoryText:
		resp, err = c.dispatchText(ctx, peer, req)
	case CategoryImage:
		resp, err = c.dispatchImage(ctx, peer, req)
	case CategoryEmbeddings:
		resp, err = c.dispatchEmbeddings(ctx, peer, req)
	default:
		err = fmt.Errorf("unknown task category: %s", req.Category)
	}

	if err != nil {
		log.Debug().Err(err).Int64("uid", peer.UID).Str("category", string(req.Category)).Msg("dispatch failed")
		return TaskResult{UID: peer.UID, Err: err}
	}
	return TaskResult{UID: peer.UID, Response: resp}
}

// dispatchText issues a streaming request and concatenates the chunks of the
// first stream in arrival order. Each line of the body is a JSON list of
// chunks; the first element of each list is appended.
func (c *Client) dispatchText(ctx context.Context, peer Peer, req TaskRequest) (*TaskResponse, error) {
	body, err := sonic.Marshal(TextRequest{Prompt: req.Prompt, Model: req.Model, Seed: req.Seed})
	if err != nil {
		return nil, fmt.Errorf("marshal text request: %w", err)
	}

	resp, err := c.streamClient.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(peer.Address + "/text")
	if err != nil {
		return nil, fmt.Errorf("text dispatch: %w", err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.StatusCode() >= 400 {
		drained, _ := io.ReadAll(io.LimitReader(raw, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode(), string(drained))
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunks []string
		if err := sonic.Unmarshal(line, &chunks); err != nil {
			return nil, fmt.Errorf("malformed stream chunk: %w", err)
		}
		if len(chunks) > 0 {
			sb.WriteString(chunks[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	return &TaskResponse{Text: sb.String()}, nil
}

func (c *Client) dispatchImage(ctx context.Context, peer Peer, req TaskRequest) (*TaskResponse, error) {
	if req.Image == nil {
		return nil, fmt.Errorf("image task without image params")
	}
	wire := ImageRequest{
		Prompt:  req.Prompt,
		Model:   req.Model,
		Size:    req.Image.Size,
		Quality: req.Image.Quality,
		Style:   req.Image.Style,
	}
	var out ImageResponseBody
	if err := c.doUnary(ctx, peer.Address+"/image", wire, &out); err != nil {
		return nil, err
	}
	if out.Completion == nil || out.Completion.URL == "" {
		return nil, fmt.Errorf("image response missing completion")
	}
	return &TaskResponse{Completion: out.Completion}, nil
}

func (c *Client) dispatchEmbeddings(ctx context.Context, peer Peer, req TaskRequest) (*TaskResponse, error) {
	wire := EmbeddingsRequest{Texts: req.Texts, Model: req.Model}
	var out EmbeddingsResponseBody
	if err := c.doUnary(ctx, peer.Address+"/embeddings", wire, &out); err != nil {
		return nil, err
	}
	if len(out.Embeddings) == 0 {
		return nil, fmt.Errorf("embeddings response is empty")
	}
	return &TaskResponse{Embeddings: out.Embeddings}, nil
}

func (c *Client) doUnary(ctx context.Context, url string, body, out any) error {
	b, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.httpClient.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(b).
		Post(url)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("bad status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	data, err := maybeDecompress(resp)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
