package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/maltedev/tcg-buyout/internal/parser"
)

var ErrNavigation = errors.New("page navigation failed")

// PageNavigator moves through the paginated listings of one product.
type PageNavigator interface {
	HasNextPage(ctx context.Context) (bool, error)
	Advance(ctx context.Context) error
}

// ListingExtractor reads the listing rows of the page currently shown.
type ListingExtractor interface {
	RowsOnCurrentPage(ctx context.Context) ([]parser.RawRow, error)
}

// NavigationError reports that the next-page control could not be used.
type NavigationError struct {
	Page int
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("%s on page %d: %v", ErrNavigation, e.Page, e.Err)
}

func (e *NavigationError) Unwrap() []error {
	return []error{ErrNavigation, e.Err}
}
