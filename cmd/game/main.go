package main

import (
	"context"
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zarux/tdtictactoe/internal/config"
	"github.com/Zarux/tdtictactoe/internal/logger"
	"github.com/Zarux/tdtictactoe/pkg/policy"
	"github.com/Zarux/tdtictactoe/pkg/td"
	"github.com/Zarux/tdtictactoe/services/game"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	policyPath := flag.String("policy", "", "policy file (overrides config)")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("bad config", "err", err)
		os.Exit(1)
	}
	if *policyPath != "" {
		cfg.Policy = *policyPath
	}

	ctx := logger.NewContext(context.Background(), log)
	table := policy.LoadOrEmpty(ctx, cfg.Policy)
	bot := td.NewLearner(table, td.WithEpsilon(0))

	gameService := game.New(bot, tea.WithAltScreen())
	if err := gameService.Play(); err != nil {
		log.Error("game failed", "err", err)
		os.Exit(1)
	}
}
