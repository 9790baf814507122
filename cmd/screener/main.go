package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ordonezjosue/stock-screener/internal/config"
	"github.com/ordonezjosue/stock-screener/internal/logger"
	"github.com/ordonezjosue/stock-screener/internal/news"
	"github.com/ordonezjosue/stock-screener/internal/options"
	"github.com/ordonezjosue/stock-screener/internal/quotes"
	"github.com/ordonezjosue/stock-screener/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to yaml config")
	once := flag.Bool("once", false, "run one screener pass and exit")
	flag.Parse()

	// Missing .env is fine: keys can come from the real environment.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = logger.Shutdown(ctx)
	}()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.ErrorWithErr(ctx, "Config load failed", err, "path", *configPath)
			os.Exit(1)
		}
		logger.Warn(ctx, "No config file, using defaults", "path", *configPath)
		cfg = config.Default()
	}

	quoteSvc := quotes.NewService(quotes.Config{
		APIKey:     os.Getenv("ALPHA_VANTAGE_KEY"),
		RateLimit:  cfg.Quotes.RateLimit,
		RateWindow: cfg.Quotes.RateWindow(),
		BatchDelay: cfg.Quotes.BatchDelay(),
	})
	aggregator := news.NewAggregator(news.Config{
		FetchDelay: cfg.News.FetchDelay(),
		MaxErrors:  cfg.News.MaxErrors,
	})
	optionSvc := options.NewService(options.Config{
		PolygonKey: os.Getenv("POLYGON_API_KEY"),
	}, quoteSvc)

	if *once {
		if err := runOnce(ctx, cfg, optionSvc); err != nil {
			logger.ErrorWithErr(ctx, "Screener pass failed", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.New(cfg, scheduler.Services{
		Quotes:  quoteSvc,
		News:    aggregator,
		Options: optionSvc,
	})
	if err := sched.Start(); err != nil {
		logger.ErrorWithErr(ctx, "Scheduler start failed", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	logger.Info(ctx, "Shutting down", "signal", received.String())
	sched.Stop()
}

func runOnce(ctx context.Context, cfg *config.Config, optionSvc *options.Service) error {
	results, err := optionSvc.RunScreener(ctx, cfg.Screener.Criteria, cfg.Universe)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
