package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Listing is one price and quantity a seller offers at a single condition.
type Listing struct {
	Condition Condition       `json:"condition"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func NewListing(condition Condition, price decimal.Decimal, quantity int) Listing {
	return Listing{
		Condition: condition,
		Price:     price,
		Quantity:  quantity,
	}
}

// TotalPrice is the cost of buying every card in the listing.
func (l Listing) TotalPrice() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// String renders like "$0.11 - 4 Near Mint".
func (l Listing) String() string {
	return fmt.Sprintf("$%s - %d %s", l.Price.String(), l.Quantity, l.Condition)
}
