// Replays a file of round score vectors through the weight accumulator to
// inspect EMA convergence offline.
//
// Input file format: a JSON array of rounds, each a map of uid to score,
// e.g. [{"0": 1.0, "1": 0.5}, {"0": 0.0, "1": 0.5}].
package main

import (
	"flag"
	"os"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/utils/logger"
	"github.com/vigil-labs/vigil/internal/validator"
)

func main() {
	path := flag.String("rounds", "rounds.json", "path to the JSON file of round score vectors")
	logger.Init()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Str("path", *path).Msg("failed to read rounds file")
	}

	var rounds []map[int64]float64
	if err := sonic.Unmarshal(data, &rounds); err != nil {
		log.Fatal().Err(err).Msg("failed to parse rounds file")
	}

	sugar := logger.Sugar()
	acc := validator.NewWeightAccumulator()

	for i, round := range rounds {
		committed := acc.Update(round)

		uids := make([]int64, 0, len(committed))
		for uid := range committed {
			uids = append(uids, uid)
		}
		sort.Slice(uids, func(a, b int) bool { return uids[a] < uids[b] })

		for _, uid := range uids {
			sugar.Infow("committed weight", "round", i+1, "uid", uid, "weight", committed[uid])
		}
	}

	log.Info().Int("rounds", len(rounds)).Msg("replay complete")
}
