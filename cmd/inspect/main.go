package main

import (
	"flag"
	"os"

	"github.com/Zarux/tdtictactoe/internal/config"
	"github.com/Zarux/tdtictactoe/internal/logger"
	"github.com/Zarux/tdtictactoe/internal/report"
	"github.com/Zarux/tdtictactoe/pkg/policy"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	policyPath := flag.String("policy", "", "policy file (overrides config)")
	out := flag.String("out", "", "text report (overrides config)")
	parquetPath := flag.String("parquet", "", "also export the table as parquet (overrides config)")
	top := flag.Int("top", 5, "best and worst states to print")
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
	if *out != "" {
		cfg.Report.Inspect = *out
	}
	if *parquetPath != "" {
		cfg.Report.Parquet = *parquetPath
	}

	table, err := policy.Load(cfg.Policy)
	if err != nil {
		log.Error("policy not loaded", "path", cfg.Policy, "err", err)
		os.Exit(1)
	}

	report.Summary(os.Stdout, table, *top)

	if err := report.WriteInspectionFile(cfg.Report.Inspect, table); err != nil {
		log.Error("inspection failed", "err", err)
		os.Exit(1)
	}
	log.Info("policy values written", "path", cfg.Report.Inspect)

	if cfg.Report.Parquet != "" {
		if err := policy.ExportParquet(cfg.Report.Parquet, table); err != nil {
			log.Error("parquet export failed", "err", err)
			os.Exit(1)
		}
		log.Info("parquet written", "path", cfg.Report.Parquet)
	}
}
