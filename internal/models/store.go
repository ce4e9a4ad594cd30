package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Comparison is the result of ranking one store against another.
type Comparison int

const (
	Less    Comparison = -1
	Equal   Comparison = 0
	Greater Comparison = 1
)

// Store accumulates one seller's listings. Every derived amount is computed
// from the current listings on each call.
type Store struct {
	Name                  string
	ShippingCost          decimal.Decimal
	FreeShippingThreshold *decimal.Decimal // nil when the seller never ships free
	Listings              []Listing
}

func NewStore(name string, shippingCost decimal.Decimal, freeShippingThreshold *decimal.Decimal) *Store {
	return &Store{
		Name:                  name,
		ShippingCost:          shippingCost,
		FreeShippingThreshold: freeShippingThreshold,
		Listings:              make([]Listing, 0),
	}
}

// AddListing appends a listing. Duplicate conditions are not rejected here;
// callers decide what to accept.
func (s *Store) AddListing(condition Condition, price decimal.Decimal, quantity int) {
	s.Listings = append(s.Listings, NewListing(condition, price, quantity))
}

func (s *Store) HasCondition(condition Condition) bool {
	for _, l := range s.Listings {
		if l.Condition == condition {
			return true
		}
	}
	return false
}

// CardPrice is the cost of every card at the store, shipping excluded.
func (s *Store) CardPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Listings {
		total = total.Add(l.TotalPrice())
	}
	return total
}

func (s *Store) AchievedFreeShipping() bool {
	if s.FreeShippingThreshold == nil {
		return false
	}
	return s.CardPrice().GreaterThanOrEqual(*s.FreeShippingThreshold)
}

func (s *Store) ShippingPrice() decimal.Decimal {
	if s.AchievedFreeShipping() {
		return decimal.Zero
	}
	return s.ShippingCost
}

// MoneyToFreeShipping returns how much more must be spent to reach the
// threshold, or nil when there is no threshold or it is already reached.
func (s *Store) MoneyToFreeShipping() *decimal.Decimal {
	if s.FreeShippingThreshold == nil {
		return nil
	}
	cardPrice := s.CardPrice()
	if !cardPrice.LessThan(*s.FreeShippingThreshold) {
		return nil
	}
	gap := s.FreeShippingThreshold.Sub(cardPrice)
	return &gap
}

// TotalPrice is the buy-out cost: cards plus shipping.
func (s *Store) TotalPrice() decimal.Decimal {
	return s.CardPrice().Add(s.ShippingPrice())
}

func (s *Store) TotalQuantity() int {
	quantity := 0
	for _, l := range s.Listings {
		quantity += l.Quantity
	}
	return quantity
}

// PricePerCardPlaces is the number of decimal places PricePerCard rounds
// to. Stores whose prices per card differ only beyond it rank equal.
const PricePerCardPlaces = 16

// PricePerCard is the buy-out cost spread over every card, rounded half
// away from zero to PricePerCardPlaces. It is only meaningful for a store
// with at least one card and returns zero otherwise.
func (s *Store) PricePerCard() decimal.Decimal {
	quantity := s.TotalQuantity()
	if quantity == 0 {
		return decimal.Zero
	}
	return s.TotalPrice().DivRound(decimal.NewFromInt(int64(quantity)), PricePerCardPlaces)
}

func (s *Store) HasFoil() bool {
	for _, l := range s.Listings {
		if l.Condition.IsFoil() {
			return true
		}
	}
	return false
}

// RanksEqual reports whether two stores tie on price per card. Quantity is
// ignored, so two different sellers can rank equal.
func (s *Store) RanksEqual(other *Store) bool {
	return s.PricePerCard().Equal(other.PricePerCard())
}

// Compare orders stores cheapest per card first. Among stores with the same
// price per card, the one with more cards comes first. Equal means both price
// per card and quantity tie; use RanksEqual for equality on price per card.
func (s *Store) Compare(other *Store) Comparison {
	if !s.RanksEqual(other) {
		if s.PricePerCard().LessThan(other.PricePerCard()) {
			return Less
		}
		return Greater
	}

	switch q, oq := s.TotalQuantity(), other.TotalQuantity(); {
	case q > oq:
		return Less
	case q < oq:
		return Greater
	default:
		return Equal
	}
}

// String renders the store block printed at the end of a run:
//
//	The Dragon's Table - $0.17 per - $11.87 - 69
//		Heavily Played - $0.13 - 8
//		Lightly Played Foil - $0.24 - 1
func (s *Store) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - $%s per - $%s - %d",
		s.Name, s.PricePerCard().StringFixed(2), s.TotalPrice().StringFixed(2), s.TotalQuantity())

	if s.AchievedFreeShipping() {
		b.WriteString("\n\t* FREE SHIPPING *")
	}

	for _, l := range s.Listings {
		fmt.Fprintf(&b, "\n\t%s - $%s - %d", l.Condition, l.Price.StringFixed(2), l.Quantity)
	}

	// Topping up the cart is cheaper than paying for shipping.
	if gap := s.MoneyToFreeShipping(); gap != nil && gap.LessThan(s.ShippingCost) {
		fmt.Fprintf(&b, "\n\tFREE SHIPPING IN $%s", gap.StringFixed(2))
	}

	return b.String()
}

// StoreSummary is the serialized form of a ranked store.
type StoreSummary struct {
	Name                 string           `json:"name"`
	PricePerCard         decimal.Decimal  `json:"price_per_card"`
	TotalPrice           decimal.Decimal  `json:"total_price"`
	CardPrice            decimal.Decimal  `json:"card_price"`
	ShippingPrice        decimal.Decimal  `json:"shipping_price"`
	TotalQuantity        int              `json:"total_quantity"`
	AchievedFreeShipping bool             `json:"achieved_free_shipping"`
	MoneyToFreeShipping  *decimal.Decimal `json:"money_to_free_shipping,omitempty"`
	HasFoil              bool             `json:"has_foil"`
	Listings             []Listing        `json:"listings"`
}

func (s *Store) Summary() StoreSummary {
	listings := make([]Listing, len(s.Listings))
	copy(listings, s.Listings)

	return StoreSummary{
		Name:                 s.Name,
		PricePerCard:         s.PricePerCard(),
		TotalPrice:           s.TotalPrice(),
		CardPrice:            s.CardPrice(),
		ShippingPrice:        s.ShippingPrice(),
		TotalQuantity:        s.TotalQuantity(),
		AchievedFreeShipping: s.AchievedFreeShipping(),
		MoneyToFreeShipping:  s.MoneyToFreeShipping(),
		HasFoil:              s.HasFoil(),
		Listings:             listings,
	}
}
