package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/maltedev/tcg-buyout/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrPriceParse    = errors.New("no price found")
	ErrQuantityParse = errors.New("no quantity found")
)

var (
	pricePattern    = regexp.MustCompile(`\d+(?:\.\d{2})?`)
	quantityPattern = regexp.MustCompile(`\d+`)
)

// ParseError reports a raw field that holds no usable number.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RawRow is the text of one listing row as shown on the page. Optional
// fields are nil when the page has no element for them.
type RawRow struct {
	SellerName               string  `json:"seller_name"`
	RawPrice                 string  `json:"raw_price"`
	RawQuantity              string  `json:"raw_quantity"`
	RawCondition             string  `json:"raw_condition"`
	RawShipping              *string `json:"raw_shipping,omitempty"`
	RawFreeShippingThreshold *string `json:"raw_free_shipping_threshold,omitempty"`
}

// Row is a RawRow converted to typed values.
type Row struct {
	SellerName            string
	Condition             models.Condition
	Price                 decimal.Decimal
	Quantity              int
	Shipping              decimal.Decimal
	FreeShippingThreshold *decimal.Decimal
}

// FindPrice returns the first amount in text, such as 5.00 from
// "$5.00 minimum". A nil text yields a nil amount and no error.
func FindPrice(text *string) (*decimal.Decimal, error) {
	if text == nil {
		return nil, nil
	}

	match := pricePattern.FindString(*text)
	if match == "" {
		return nil, &ParseError{Field: "price", Input: *text, Err: ErrPriceParse}
	}

	amount, err := decimal.NewFromString(match)
	if err != nil {
		return nil, &ParseError{Field: "price", Input: *text, Err: err}
	}
	return &amount, nil
}

// FindQuantity returns the first integer in text, such as 4 from "of 4".
func FindQuantity(text string) (int, error) {
	match := quantityPattern.FindString(text)
	if match == "" {
		return 0, &ParseError{Field: "quantity", Input: text, Err: ErrQuantityParse}
	}

	quantity, err := strconv.Atoi(match)
	if err != nil {
		return 0, &ParseError{Field: "quantity", Input: text, Err: err}
	}
	return quantity, nil
}

// ParseRow converts raw text into a Row. Rows without shipping text are
// shipped by the platform and cost fallbackShipping.
func ParseRow(raw RawRow, fallbackShipping decimal.Decimal) (Row, error) {
	row := Row{SellerName: raw.SellerName}

	condition, err := models.ParseCondition(raw.RawCondition)
	if err != nil {
		return Row{}, err
	}
	row.Condition = condition

	price, err := FindPrice(&raw.RawPrice)
	if err != nil {
		return Row{}, err
	}
	row.Price = *price

	row.Quantity, err = FindQuantity(raw.RawQuantity)
	if err != nil {
		return Row{}, err
	}

	row.Shipping = fallbackShipping
	if raw.RawShipping != nil {
		shipping, err := FindPrice(raw.RawShipping)
		if err != nil {
			return Row{}, fmt.Errorf("shipping: %w", err)
		}
		row.Shipping = *shipping
	}

	row.FreeShippingThreshold, err = FindPrice(raw.RawFreeShippingThreshold)
	if err != nil {
		return Row{}, fmt.Errorf("free shipping threshold: %w", err)
	}

	return row, nil
}
