package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/tcg-buyout/internal/browser"
	"github.com/maltedev/tcg-buyout/internal/config"
	"github.com/maltedev/tcg-buyout/internal/database"
	"github.com/maltedev/tcg-buyout/internal/notify"
	"github.com/maltedev/tcg-buyout/internal/scraper"
	"github.com/maltedev/tcg-buyout/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		url       = flag.String("url", "", "TCGplayer product page to scan")
		blacklist = flag.String("blacklist", "", "Comma-separated list of sellers to skip")
		runFile   = flag.String("file", "", "YAML run file with url and blacklist")
		headless  = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *runFile != "" {
		if err := cfg.Run.MergeFile(*runFile); err != nil {
			log.Fatalf("Failed to load run file: %v", err)
		}
	}
	if *url != "" {
		cfg.Run.URL = *url
	}
	cfg.Run.Blacklist = config.MergeBlacklists(cfg.Run.Blacklist, splitSellers(*blacklist))

	if cfg.Run.URL == "" {
		fmt.Fprintln(os.Stderr, "Usage: buyout -url <tcgplayer product url> [-blacklist seller1,seller2]")
		os.Exit(2)
	}

	// stdout carries the ranking
	logger := logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	if err := run(ctx, cfg, *headless, logger); err != nil {
		logger.Error("Buy-out scan failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, headless bool, logger *slog.Logger) error {
	b, err := browser.New(&browser.Options{
		Headless:       headless && cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer b.Close()

	var source scraper.BlacklistSource
	if cfg.Database.Enabled {
		db, err := database.New(ctx, databaseConfig(cfg))
		if err != nil {
			return err
		}
		defer db.Close()
		source = database.NewBlacklistRepository(db)
	}

	service := scraper.NewService(b, source, scraper.ServiceConfig{
		Blacklist:        cfg.Run.Blacklist,
		FallbackShipping: cfg.Run.FallbackShipping,
		SettleDelay:      cfg.Run.SettleDelay,
		SettleJitter:     cfg.Run.SettleJitter,
	}, logger)

	start := time.Now()
	result, err := service.Scan(ctx, cfg.Run.URL, nil)
	if err != nil {
		return err
	}

	logger.Info("Scan finished",
		"stores", len(result.Stores),
		"pages", result.Pages,
		"rows", result.Rows,
		"blacklisted", result.Blacklisted,
		"duplicates", result.Duplicates,
		"duration", time.Since(start))

	for _, store := range result.Stores {
		fmt.Println(store)
		fmt.Println()
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		publisher := notify.NewStreamPublisher(client, cfg.Redis.Stream, logger)
		if _, err := publisher.Publish(ctx, notify.Ranking{
			RunID:  uuid.New(),
			URL:    cfg.Run.URL,
			Stores: result.Stores,
		}); err != nil {
			return err
		}
	}

	return nil
}

func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		MaxConns: cfg.Database.MaxConns,
	}
}

func splitSellers(value string) []string {
	var sellers []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sellers = append(sellers, s)
		}
	}
	return sellers
}
