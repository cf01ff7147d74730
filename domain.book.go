package main

import "context"

// Book represents a purchasable book entity as loaded from the catalog
// source. It is immutable once fetched: the `price` field always carries
// the base price and `discountPercent` is the only discount representation.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Summary         string `json:"summary"`
	Genre           string `json:"genre"`
	Location        string `json:"location"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discountPercent"`
	ImageRef        string `json:"image"`
}

// EffectiveUnitPrice computes the price after applying the book discount.
// Rounding is half-up and happens once, on the discounted unit price.
func (b Book) EffectiveUnitPrice() int64 {
	if b.DiscountPercent <= 0 {
		return b.Price
	}
	return (b.Price*int64(100-b.DiscountPercent) + 50) / 100
}

// BookSource defines the external catalog collaborator. Implementations
// fetch the list of book records published under a given source identifier.
type BookSource interface {
	Fetch(ctx context.Context, sourceID string) ([]Book, error)
}
