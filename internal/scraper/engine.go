package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/tcg-buyout/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultFallbackShipping is what the platform charges for listings it
// ships itself. Those rows carry no shipping text.
var DefaultFallbackShipping = decimal.RequireFromString("3.99")

// State is the phase of a run.
type State int

const (
	StateCollecting State = iota
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	Blacklist        []string
	FallbackShipping decimal.Decimal
}

func DefaultOptions() Options {
	return Options{
		FallbackShipping: DefaultFallbackShipping,
	}
}

// Result is the ranked outcome of a completed run.
type Result struct {
	Stores      []*models.Store
	Pages       int
	Rows        int
	Blacklisted int
	Duplicates  int
}

// Engine folds the listing rows of every page into per-seller stores and
// ranks them once the last page has been read.
type Engine struct {
	navigator PageNavigator
	extractor ListingExtractor
	opts      Options
	logger    *slog.Logger
}

func NewEngine(navigator PageNavigator, extractor ListingExtractor, opts Options, logger *slog.Logger) *Engine {
	return &Engine{
		navigator: navigator,
		extractor: extractor,
		opts:      opts,
		logger:    logger.With("component", "engine"),
	}
}

// Run reads every page and returns the stores best buy-out first. Any
// failure aborts the run and no partial ranking is returned.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	agg := NewAggregation(e.opts.Blacklist, e.opts.FallbackShipping)
	state := StateCollecting
	pageNum := 1

	for state == StateCollecting {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := e.extractor.RowsOnCurrentPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("page %d: failed to extract listings: %w", pageNum, err)
		}

		e.logger.Debug("processing page", "page", pageNum, "rows", len(rows))

		for i, raw := range rows {
			if _, err := agg.Add(raw); err != nil {
				return nil, fmt.Errorf("page %d row %d: %w", pageNum, i, err)
			}
		}

		hasNext, err := e.navigator.HasNextPage(ctx)
		if err != nil {
			return nil, &NavigationError{Page: pageNum, Err: err}
		}

		if !hasNext {
			state = StateDone
			continue
		}

		if err := e.navigator.Advance(ctx); err != nil {
			return nil, &NavigationError{Page: pageNum, Err: err}
		}
		pageNum++
	}

	result := &Result{
		Stores:      agg.Ranked(),
		Pages:       pageNum,
		Rows:        agg.rows,
		Blacklisted: agg.blacklisted,
		Duplicates:  agg.duplicates,
	}

	e.logger.Info("run completed",
		"state", state,
		"pages", result.Pages,
		"rows", result.Rows,
		"stores", len(result.Stores),
		"blacklisted", result.Blacklisted,
		"duplicates", result.Duplicates)

	return result, nil
}
