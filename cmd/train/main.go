package main

import (
	"context"
	"errors"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/Zarux/tdtictactoe/internal/config"
	"github.com/Zarux/tdtictactoe/internal/logger"
	"github.com/Zarux/tdtictactoe/internal/report"
	"github.com/Zarux/tdtictactoe/pkg/policy"
	"github.com/Zarux/tdtictactoe/pkg/td"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	episodes := flag.Int("episodes", 0, "self-play episodes (overrides config)")
	policyPath := flag.String("policy", "", "policy output file (overrides config)")
	seed := flag.Uint64("seed", 0, "random seed (overrides config, 0 = random)")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("bad config", "err", err)
		os.Exit(1)
	}

	if *episodes > 0 {
		cfg.Train.Episodes = *episodes
	}
	if *policyPath != "" {
		cfg.Policy = *policyPath
	}
	if *seed != 0 {
		cfg.Train.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		log.Error("bad config", "err", err)
		os.Exit(1)
	}

	log = logger.NewWithWriter(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	if err := run(ctx, cfg); err != nil {
		log.Error("training failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log := logger.FromContext(ctx)

	seed := cfg.Train.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	learner := td.NewLearner(td.NewValueTable(),
		td.WithAlpha(cfg.Train.Alpha),
		td.WithEpsilon(cfg.Train.Epsilon),
		td.WithGamma(cfg.Train.Gamma),
		td.WithRand(rng),
	)

	var curve report.Curve
	trainer := td.NewTrainer(learner, rng,
		td.WithCheckpoints(cfg.Train.EvalEvery, cfg.Train.EvalGames, func(cp td.Checkpoint) {
			curve.Add(cp)
			log.Info("episode",
				"n", cp.Episode,
				"of", cfg.Train.Episodes,
				"states", cp.Stats.States,
				"win", cp.Evaluation.WinRate(),
				"draw", cp.Evaluation.DrawRate(),
				"loss", cp.Evaluation.LossRate(),
			)
		}),
	)

	log.Info("training", "episodes", cfg.Train.Episodes, "seed", seed,
		"alpha", cfg.Train.Alpha, "epsilon", cfg.Train.Epsilon, "gamma", cfg.Train.Gamma)

	t := time.Now()
	stats, err := trainer.Train(ctx, cfg.Train.Episodes)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		log.Warn("training interrupted, saving what was learned", "episodes", stats.Episodes)
	}

	log.Info("training done",
		"episodes", stats.Episodes,
		"wins", stats.Wins,
		"draws", stats.Draws,
		"losses", stats.Losses,
		"states", stats.States,
		"took", time.Since(t).Round(time.Millisecond),
	)

	if err := policy.Save(cfg.Policy, learner.Table()); err != nil {
		return err
	}
	log.Info("policy saved", "path", cfg.Policy)

	if cfg.Report.Chart != "" && len(curve.Points) > 0 {
		if err := curve.WriteFile(cfg.Report.Chart); err != nil {
			return err
		}
		log.Info("learning curve written", "path", cfg.Report.Chart)
	}

	return nil
}
