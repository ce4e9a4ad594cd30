package scraper

import (
	"github.com/maltedev/tcg-buyout/internal/models"
	"github.com/maltedev/tcg-buyout/internal/parser"
	"github.com/shopspring/decimal"
)

// Outcome says what happened to a row folded into an Aggregation.
type Outcome int

const (
	Accepted Outcome = iota
	Blacklisted
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Blacklisted:
		return "blacklisted"
	default:
		return "duplicate"
	}
}

// Aggregation is the seller to store mapping of a single run.
type Aggregation struct {
	blacklist        map[string]struct{}
	fallbackShipping decimal.Decimal

	stores map[string]*models.Store
	order  []string

	rows        int
	blacklisted int
	duplicates  int
}

func NewAggregation(blacklist []string, fallbackShipping decimal.Decimal) *Aggregation {
	set := make(map[string]struct{}, len(blacklist))
	for _, name := range blacklist {
		set[name] = struct{}{}
	}

	return &Aggregation{
		blacklist:        set,
		fallbackShipping: fallbackShipping,
		stores:           make(map[string]*models.Store),
	}
}

// Add parses raw and folds it into the seller's store. Shipping cost and
// free shipping threshold are taken from the first row seen for a seller.
// A second row at a condition the seller already has is dropped, which
// keeps repeated page renders from counting twice but also drops a real
// second listing at the same condition.
func (a *Aggregation) Add(raw parser.RawRow) (Outcome, error) {
	row, err := parser.ParseRow(raw, a.fallbackShipping)
	if err != nil {
		return 0, err
	}
	a.rows++

	if _, ok := a.blacklist[row.SellerName]; ok {
		a.blacklisted++
		return Blacklisted, nil
	}

	store, ok := a.stores[row.SellerName]
	if !ok {
		store = models.NewStore(row.SellerName, row.Shipping, row.FreeShippingThreshold)
		a.stores[row.SellerName] = store
		a.order = append(a.order, row.SellerName)
	}

	if store.HasCondition(row.Condition) {
		a.duplicates++
		return Duplicate, nil
	}

	store.AddListing(row.Condition, row.Price, row.Quantity)
	return Accepted, nil
}

func (a *Aggregation) Store(sellerName string) (*models.Store, bool) {
	store, ok := a.stores[sellerName]
	return store, ok
}

func (a *Aggregation) Len() int {
	return len(a.stores)
}

// Ranked returns the stores in first-seen order, then ranked.
func (a *Aggregation) Ranked() []*models.Store {
	stores := make([]*models.Store, 0, len(a.order))
	for _, name := range a.order {
		stores = append(stores, a.stores[name])
	}
	models.Rank(stores)
	return stores
}
