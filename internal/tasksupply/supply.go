// Package tasksupply maintains the rotating queues of themes and task
// prompts each round draws from. Queues are consumed LIFO and refilled
// wholesale from the oracle when they run dry; oracle failure degrades to
// built-in default lists and never propagates.
package tasksupply

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/oracle"
	"github.com/vigil-labs/vigil/internal/synapse"
)

// Kind selects which queue of a category is addressed.
type Kind string

const (
	KindThemes    Kind = "themes"
	KindQuestions Kind = "questions"
)

const (
	refillAttempts    = 3
	listTemperature   = 0.33
	defaultListModel  = "gpt-3.5-turbo"
	maxListRandomSeed = 10000
)

// ChatOracle is the slice of the oracle capability the supply needs.
type ChatOracle interface {
	ChatCompletion(ctx context.Context, messages []oracle.ChatMessage, temperature float64, model string, seed int) (string, error)
}

type queueKey struct {
	Category synapse.Category
	Kind     Kind
}

func (k queueKey) String() string {
	return fmt.Sprintf("%s_%s", k.Category, k.Kind)
}

// entry is one (category, kind) queue with its own lock, so refills of
// different keys can run concurrently while same-key refills stay serial.
type entry struct {
	mu    sync.Mutex
	items []string
}

// Supply holds every queue and the oracle used to refill them.
type Supply struct {
	oracle ChatOracle
	model  string

	mu      sync.Mutex // guards the entries map only
	entries map[queueKey]*entry
}

func New(o ChatOracle, listModel string) *Supply {
	if listModel == "" {
		listModel = defaultListModel
	}
	return &Supply{
		oracle:  o,
		model:   listModel,
		entries: make(map[queueKey]*entry),
	}
}

func (s *Supply) entryFor(k queueKey) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[k]
	if !ok {
		e = &entry{}
		s.entries[k] = e
	}
	return e
}

// Take pops the most recently fetched item for (category, kind), refilling
// the queue from the oracle first when it is empty. Questions need a theme;
// when the caller has none, one is popped from the category's theme queue,
// which may itself trigger a refill.
func (s *Supply) Take(ctx context.Context, category synapse.Category, kind Kind) (string, error) {
	return s.take(ctx, category, kind, "")
}

func (s *Supply) take(ctx context.Context, category synapse.Category, kind Kind, theme string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	k := queueKey{Category: category, Kind: kind}
	e := s.entryFor(k)

	e.mu.Lock()
	defer e.mu.Unlock()

	log.Debug().Str("queue", k.String()).Int("items", len(e.items)).Msg("queue state before take")

	if len(e.items) == 0 {
		if kind == KindQuestions && theme == "" {
			// theme queue uses a different lock; lock order is always
			// questions then themes, so this cannot deadlock
			t, err := s.take(ctx, category, KindThemes, "")
			if err != nil {
				return "", err
			}
			theme = t
		}
		e.items = s.refill(ctx, k, theme)
		log.Debug().Str("queue", k.String()).Int("items", len(e.items)).Msg("queue refilled")
	}

	if len(e.items) == 0 {
		return "", fmt.Errorf("no items available for %s", k)
	}

	item := e.items[len(e.items)-1]
	e.items = e.items[:len(e.items)-1]
	return item, nil
}

// refill fetches a full batch from the oracle, validating that the answer
// contains an extractable list. After three failed attempts the built-in
// default list for the key is used instead.
func (s *Supply) refill(ctx context.Context, k queueKey, theme string) []string {
	prompt := promptFor(k, theme)
	messages := []oracle.ChatMessage{{Role: "user", Content: prompt}}

	for attempt := 1; attempt <= refillAttempts; attempt++ {
		seed := rand.IntN(maxListRandomSeed) + 1
		answer, err := s.oracle.ChatCompletion(ctx, messages, listTemperature, s.model, seed)
		if err != nil {
			log.Error().Err(err).Str("queue", k.String()).Int("attempt", attempt).Msg("oracle list generation failed")
			continue
		}

		answer = strings.ReplaceAll(answer, "\n", " ")
		items := ExtractList(answer)
		if len(items) > 0 {
			log.Info().Str("queue", k.String()).Int("count", len(items)).Msg("fetched new list")
			return items
		}
		log.Info().Str("queue", k.String()).Int("attempt", attempt).Msg("no valid list found in oracle answer")
	}

	log.Error().Str("queue", k.String()).Msgf("no list found after %d retries, using default list", refillAttempts)
	return defaultList(k)
}
