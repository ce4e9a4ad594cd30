package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CSS classes of a TCGplayer product page listing row.
const (
	ListingSelector      = ".listing-item"
	sellerSelector       = ".seller-info__name"
	priceSelector        = ".listing-item__listing-data__info__price"
	quantitySelector     = ".add-to-cart__available"
	conditionSelector    = ".listing-item__listing-data__info__condition"
	shippingSelector     = ".shipping-messages__price"
	freeShippingSelector = ".free-shipping-over-min"
)

// TCGPlayerParser reads listing rows out of a rendered product page.
type TCGPlayerParser struct{}

func NewTCGPlayerParser() *TCGPlayerParser {
	return &TCGPlayerParser{}
}

// ParseListings returns one RawRow per listing row in html, in page order.
// Shipping text is missing for rows shipped by the platform itself and the
// free shipping text is missing for sellers without a threshold.
func (p *TCGPlayerParser) ParseListings(html string) ([]RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var (
		rows   []RawRow
		rowErr error
	)
	doc.Find(ListingSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		row, err := p.parseListing(s)
		if err != nil {
			rowErr = fmt.Errorf("listing %d: %w", i, err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return rows, nil
}

func (p *TCGPlayerParser) parseListing(s *goquery.Selection) (RawRow, error) {
	var row RawRow

	required := []struct {
		selector string
		dst      *string
	}{
		{sellerSelector, &row.SellerName},
		{priceSelector, &row.RawPrice},
		{quantitySelector, &row.RawQuantity},
		{conditionSelector, &row.RawCondition},
	}
	for _, field := range required {
		text := optionalText(s, field.selector)
		if text == nil {
			return RawRow{}, fmt.Errorf("missing element %s", field.selector)
		}
		*field.dst = *text
	}

	row.RawShipping = optionalText(s, shippingSelector)
	row.RawFreeShippingThreshold = optionalText(s, freeShippingSelector)

	return row, nil
}

func optionalText(s *goquery.Selection, selector string) *string {
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	text := NormalizeText(sel.Text())
	return &text
}

// NormalizeText collapses the whitespace a rendered element carries around
// and inside its text.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
