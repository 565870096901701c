package listing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MarketplaceAspects carries the marketplace-specific selling parameters of a
// listing (policies, location, condition, packaging). The concrete shape is
// fixed per marketplace.
type MarketplaceAspects interface {
	// AsMap returns the aspects as a plain map
	AsMap() map[string]any
}

// Item is a fully described product ready to be published to a marketplace
type Item struct {
	// Title is the listing title
	Title string
	// Description is the listing description
	Description string
	// Price is the asking price
	Price decimal.Decimal
	// Currency is the ISO 4217 price currency
	Currency string
	// Country is the ISO 3166 country of the listing
	Country string
	// Quantity is the number of units offered
	Quantity int
	// Category is the free-text category name to resolve
	Category string
	// ProductAspects are the category aspects of the product
	ProductAspects []AspectValue
	// MarketplaceAspects are the marketplace-specific selling parameters
	MarketplaceAspects MarketplaceAspects
}

// Validate checks the item carries everything a publish call needs
func (i *Item) Validate() error {
	if i.Title == "" {
		return errors.New("listing: item title is required")
	}
	if i.Category == "" {
		return errors.New("listing: item category is required")
	}
	if i.Price.IsNegative() || i.Price.IsZero() {
		return errors.New("listing: item price must be positive")
	}
	if i.Currency == "" {
		return errors.New("listing: item currency is required")
	}
	if i.Quantity < 1 {
		return errors.New("listing: item quantity must be at least 1")
	}
	if i.MarketplaceAspects == nil {
		return errors.New("listing: item marketplace aspects are required")
	}
	return nil
}
