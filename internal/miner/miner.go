// Package miner is a mock axon used for local end-to-end runs: it answers
// the validator's aliveness probes and serves canned generative responses
// for every task category.
package miner

import (
	"bufio"
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/config"
	"github.com/vigil-labs/vigil/internal/synapse"
)

const embeddingDimensions = 16

// Miner serves the axon endpoints the validator dispatches to.
type Miner struct {
	app *fiber.App
	cfg *config.MinerEnvConfig
}

func NewMiner(cfg *config.MinerEnvConfig) *Miner {
	app := fiber.New(fiber.Config{
		Prefork:     false,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		BodyLimit:   cfg.BodySizeLimit,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestCompression}))

	m := &Miner{app: app, cfg: cfg}
	app.Get("/isalive", m.handleIsAlive)
	app.Post("/text", m.handleText)
	app.Post("/image", m.handleImage)
	app.Post("/embeddings", m.handleEmbeddings)
	return m
}

func (m *Miner) handleIsAlive(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(synapse.AliveResponse{Status: "ok"})
}

// handleText streams the canned completion as newline-delimited JSON chunk
// lists, the shape the validator's text dispatcher reassembles.
func (m *Miner) handleText(c *fiber.Ctx) error {
	var req synapse.TextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	log.Info().Str("model", req.Model).Int("seed", req.Seed).Msg("serving text task")

	completion := fmt.Sprintf("Echoing your prompt back at you: %s", req.Prompt)
	words := strings.Fields(completion)

	c.Set("Content-Type", "application/x-ndjson")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for i, word := range words {
			chunk := word
			if i < len(words)-1 {
				chunk += " "
			}
			line, err := sonic.Marshal([]string{chunk})
			if err != nil {
				return
			}
			if _, err := w.Write(append(line, '\n')); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

func (m *Miner) handleImage(c *fiber.Ctx) error {
	var req synapse.ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	log.Info().Str("model", req.Model).Str("size", req.Size).Msg("serving image task")

	url := fmt.Sprintf("http://%s:%d/static/%d.png", m.cfg.AxonAddress, m.cfg.AxonPort, hashString(req.Prompt))
	return c.Status(fiber.StatusOK).JSON(synapse.ImageResponseBody{
		Completion: &synapse.ImageCompletion{URL: url},
	})
}

func (m *Miner) handleEmbeddings(c *fiber.Ctx) error {
	var req synapse.EmbeddingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	log.Info().Str("model", req.Model).Int("texts", len(req.Texts)).Msg("serving embeddings task")

	embeddings := make([][]float64, len(req.Texts))
	for i, text := range req.Texts {
		embeddings[i] = pseudoEmbedding(text)
	}
	return c.Status(fiber.StatusOK).JSON(synapse.EmbeddingsResponseBody{Embeddings: embeddings})
}

// Run serves until the context is canceled, then shuts down gracefully.
func (m *Miner) Run(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", m.cfg.AxonAddress, m.cfg.AxonPort)
	go func() {
		if err := m.app.Listen(address); err != nil {
			log.Error().Err(err).Msg("miner listen failed")
		}
	}()
	log.Info().Str("address", address).Msg("miner axon started")

	<-ctx.Done()
	return m.app.ShutdownWithTimeout(5 * time.Second)
}

// pseudoEmbedding derives a deterministic unit-free vector from the text so
// repeated requests for the same input agree.
func pseudoEmbedding(text string) []float64 {
	vec := make([]float64, embeddingDimensions)
	seed := hashString(text)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float64(int64(seed>>33)) / float64(1<<30)
	}
	return vec
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
