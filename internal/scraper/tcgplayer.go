package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maltedev/tcg-buyout/internal/browser"
	"github.com/maltedev/tcg-buyout/internal/parser"
	"github.com/maltedev/tcg-buyout/internal/ratelimit"
	"github.com/playwright-community/playwright-go"
)

const nextPageSelector = `a[aria-label='Next page']`

var errNextPageMissing = errors.New("next page control not found")

// TCGPlayerPage drives one TCGplayer product page in the browser. It is
// both the PageNavigator and the ListingExtractor of a run.
type TCGPlayerPage struct {
	browser *browser.Browser
	page    playwright.Page
	parser  *parser.TCGPlayerParser
	settle  ratelimit.RateLimiter
	logger  *slog.Logger
}

func NewTCGPlayerPage(b *browser.Browser, settle ratelimit.RateLimiter, logger *slog.Logger) (*TCGPlayerPage, error) {
	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &TCGPlayerPage{
		browser: b,
		page:    page,
		parser:  parser.NewTCGPlayerParser(),
		settle:  settle,
		logger:  logger.With("component", "tcgplayer_page"),
	}, nil
}

// Open loads the product listings and waits for them to render.
func (p *TCGPlayerPage) Open(ctx context.Context, url string) error {
	if err := p.browser.Navigate(p.page, url); err != nil {
		return err
	}

	p.settle.Mark()
	return p.waitForListings(ctx)
}

func (p *TCGPlayerPage) RowsOnCurrentPage(ctx context.Context) ([]parser.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := p.page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}

	return p.parser.ParseListings(html)
}

// HasNextPage reports whether the next-page arrow is enabled. A page
// without the arrow is an error, not the last page.
func (p *TCGPlayerPage) HasNextPage(ctx context.Context) (bool, error) {
	button := p.page.Locator(nextPageSelector).First()

	count, err := button.Count()
	if err != nil {
		return false, fmt.Errorf("failed to query next page control: %w", err)
	}
	if count == 0 {
		return false, errNextPageMissing
	}

	disabled, err := button.GetAttribute("aria-disabled")
	if err != nil {
		return false, fmt.Errorf("failed to read next page control: %w", err)
	}

	return disabled != "true", nil
}

// Advance clicks the next-page arrow and waits for the new page to settle.
func (p *TCGPlayerPage) Advance(ctx context.Context) error {
	button := p.page.Locator(nextPageSelector).First()

	if err := button.Click(); err != nil {
		return fmt.Errorf("failed to click next page: %w", err)
	}
	p.settle.Mark()

	p.logger.Debug("advanced to next page")
	return p.waitForListings(ctx)
}

func (p *TCGPlayerPage) waitForListings(ctx context.Context) error {
	if err := p.settle.Wait(ctx); err != nil {
		return err
	}

	// A product with no listings never renders a row.
	if err := p.page.Locator(parser.ListingSelector).First().WaitFor(); err != nil {
		p.logger.Warn("no listings rendered", "error", err)
	}

	return nil
}

func (p *TCGPlayerPage) Close() error {
	return p.page.Close()
}
