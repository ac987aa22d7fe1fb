// Package telemetry ships per-round observability records to the external
// collector. Records are signed with the validator hotkey so the collector
// can attribute and authenticate them.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/config"
	"github.com/vigil-labs/vigil/pkg/signature"
)

const requestTimeout = 10 * time.Second

// Client posts round records to the collector. A disabled or failing client
// is indistinguishable from a working one to its callers.
type Client struct {
	enabled  bool
	hotkey   string
	provider signature.SignatureProvider
	client   *resty.Client
}

func NewClient(cfg *config.TelemetryEnvConfig, hotkey string, provider signature.SignatureProvider) *Client {
	c := resty.New().
		SetBaseURL(cfg.TelemetryURL).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTimeout(requestTimeout)

	return &Client{
		enabled:  cfg.TelemetryOn,
		hotkey:   hotkey,
		provider: provider,
		client:   c,
	}
}

// Record posts one round record. Failures are logged and dropped.
func (c *Client) Record(ctx context.Context, record RoundRecord) {
	if !c.enabled {
		return
	}

	record.ValidatorHotkey = c.hotkey

	message := fmt.Sprintf("%s:%d", c.hotkey, time.Now().Unix())
	sig, err := c.provider.Sign(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign telemetry record")
		return
	}

	resp, err := c.client.R().SetContext(ctx).
		SetHeader("X-Hotkey", c.hotkey).
		SetHeader("X-Signature", sig).
		SetHeader("X-Message", message).
		SetBody(record).
		Post("/api/v1/rounds")
	if err != nil {
		log.Error().Err(err).Msg("failed to post telemetry record")
		return
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("telemetry collector rejected record")
		return
	}
	log.Debug().Str("category", record.Category).Int("peers", len(record.Scores)).Msg("telemetry record sent")
}
