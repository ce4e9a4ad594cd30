package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/tcg-buyout/internal/browser"
	"github.com/maltedev/tcg-buyout/internal/config"
	"github.com/maltedev/tcg-buyout/internal/ratelimit"
	"github.com/shopspring/decimal"
)

// BlacklistSource supplies sellers to exclude in addition to the ones
// configured for a run.
type BlacklistSource interface {
	SellerNames(ctx context.Context) ([]string, error)
}

type ServiceConfig struct {
	Blacklist        []string
	FallbackShipping decimal.Decimal
	SettleDelay      time.Duration
	SettleJitter     time.Duration
}

// Service runs scans against live TCGplayer pages, one fresh browser page
// per scan.
type Service struct {
	browser *browser.Browser
	source  BlacklistSource
	cfg     ServiceConfig
	logger  *slog.Logger
}

// NewService creates a scan service. source may be nil.
func NewService(b *browser.Browser, source BlacklistSource, cfg ServiceConfig, logger *slog.Logger) *Service {
	return &Service{
		browser: b,
		source:  source,
		cfg:     cfg,
		logger:  logger.With("component", "scan_service"),
	}
}

// Blacklist merges the configured sellers, the extra sellers of a request
// and those held by the blacklist source.
func (s *Service) Blacklist(ctx context.Context, extra []string) ([]string, error) {
	lists := [][]string{s.cfg.Blacklist, extra}

	if s.source != nil {
		stored, err := s.source.SellerNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load blacklist: %w", err)
		}
		lists = append(lists, stored)
	}

	return config.MergeBlacklists(lists...), nil
}

// Scan opens url and ranks every seller on it.
func (s *Service) Scan(ctx context.Context, url string, extraBlacklist []string) (*Result, error) {
	blacklist, err := s.Blacklist(ctx, extraBlacklist)
	if err != nil {
		return nil, err
	}

	settle := ratelimit.NewSimpleRateLimiter(s.cfg.SettleDelay, s.cfg.SettleDelay+s.cfg.SettleJitter)
	page, err := NewTCGPlayerPage(s.browser, settle, s.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.Warn("failed to close page", "error", err)
		}
	}()

	s.logger.Info("starting scan", "url", url, "blacklisted_sellers", len(blacklist))

	if err := page.Open(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", url, err)
	}

	engine := NewEngine(page, page, Options{
		Blacklist:        blacklist,
		FallbackShipping: s.cfg.FallbackShipping,
	}, s.logger)

	return engine.Run(ctx)
}
