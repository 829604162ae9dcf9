package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/Zarux/tdtictactoe/internal/config"
	"github.com/Zarux/tdtictactoe/internal/logger"
	"github.com/Zarux/tdtictactoe/pkg/policy"
	"github.com/Zarux/tdtictactoe/pkg/td"
	"github.com/Zarux/tdtictactoe/services/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	policyPath := flag.String("policy", "", "policy file (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
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
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log = logger.NewWithWriter(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	table := policy.LoadOrEmpty(ctx, cfg.Policy)
	if table.Len() == 0 {
		log.Warn("agent will play untrained")
	}

	svc := server.New(td.NewLearner(table, td.WithEpsilon(0)))

	handler := server.HTTPHandler(svc)

	middlewares := []func(http.Handler) http.Handler{
		logger.NewMiddleware(log),
	}

	slices.Reverse(middlewares)

	for _, mw := range middlewares {
		handler = mw(handler)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening on", "addr", "http://"+cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err.Error())
		os.Exit(1)
	}
}
