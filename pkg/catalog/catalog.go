// Package catalog holds the storefront's static product list.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"storefront/pkg/cart"
	"storefront/pkg/money"
)

// ErrProductNotFound indicates the requested product is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// AllCategories is the pseudo-category that matches every product.
const AllCategories = "All"

// Catalog is a read-only product source.
type Catalog struct {
	products []cart.Product
	byID     map[string]int
}

// New builds a catalog over products. Later duplicates of an ID are ignored.
func New(products []cart.Product) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Listing is a product as merchandised, with its display price.
type Listing struct {
	ID       string
	Name     string
	ImageRef string
	Price    string
	Category string
}

// FromListings builds a catalog from listings, parsing each display price
// into minor units. Prices must be positive.
func FromListings(listings []Listing, symbol string) (*Catalog, error) {
	products := make([]cart.Product, 0, len(listings))
	for _, l := range listings {
		minor, err := money.ParseMajor(l.Price, symbol)
		if err != nil {
			return nil, fmt.Errorf("product %s: price %q: %w", l.ID, l.Price, err)
		}
		if minor <= 0 {
			return nil, fmt.Errorf("product %s: price %q must be positive", l.ID, l.Price)
		}
		products = append(products, cart.Product{
			ID:             l.ID,
			Name:           l.Name,
			ImageRef:       l.ImageRef,
			UnitPriceMinor: minor,
			Category:       l.Category,
		})
	}
	return New(products), nil
}

// Default returns the storefront's built-in catalog.
func Default() *Catalog {
	c, err := FromListings(listings, money.DefaultSymbol)
	if err != nil {
		panic(err)
	}
	return c
}

// List returns products in catalog order, filtered by category. An empty
// category or "All" returns everything. Matching is case-insensitive.
func (c *Catalog) List(category string) []cart.Product {
	category = strings.TrimSpace(category)
	out := make([]cart.Product, 0, len(c.products))
	for _, p := range c.products {
		if category == "" || strings.EqualFold(category, AllCategories) || strings.EqualFold(category, p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the product with id.
func (c *Catalog) Get(id string) (cart.Product, error) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return cart.Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}

// Categories returns "All" followed by each category in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	out := []string{AllCategories}
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

var listings = []Listing{
	{ID: "1", Name: "Cosmic Face Serum", ImageRef: "img/pro1.jpg", Price: "₹99.99", Category: "Skincare"},
	{ID: "2", Name: "Nebula Water Spray", ImageRef: "img/pro2.jpg", Price: "₹149.99", Category: "Haircare"},
	{ID: "3", Name: "Stardust Serum", ImageRef: "img/pro3.jpg", Price: "₹149.99", Category: "Skincare"},
	{ID: "4", Name: "Galaxy Shampoo & Conditioner", ImageRef: "img/pro4.jpg", Price: "₹149.99", Category: "Haircare"},
	{ID: "5", Name: "Solar Flare Face Serum", ImageRef: "img/pro5.jpg", Price: "₹149.99", Category: "Skincare"},
	{ID: "6", Name: "Asteroid Body Lotion", ImageRef: "img/sec2.jpg", Price: "₹199.99", Category: "Bodycare"},
	{ID: "7", Name: "Lunar Hand Cream", ImageRef: "img/section.jpg", Price: "₹129.99", Category: "Bodycare"},
	{ID: "8", Name: "Comet Hair Oil", ImageRef: "img/hair.png", Price: "₹99.99", Category: "Haircare"},
	{ID: "9", Name: "Supernova Vitamin C Serum", ImageRef: "img/shampoo.jpg", Price: "₹199.99", Category: "Skincare"},
	{ID: "10", Name: "Black Hole Hair Mask", ImageRef: "img/sec3.jpg", Price: "₹179.99", Category: "Haircare"},
	{ID: "11", Name: "Meteor Shower Scrub", ImageRef: "img/sec4.jpg", Price: "₹129.99", Category: "Skincare"},
	{ID: "12", Name: "Interstellar Shampoo", ImageRef: "img/sec5.jpg", Price: "₹159.99", Category: "Haircare"},
	{ID: "13", Name: "Cosmic Ray Body Cream", ImageRef: "img/pro2.jpg", Price: "₹219.99", Category: "Bodycare"},
	{ID: "14", Name: "Time Warp Face Cream", ImageRef: "img/pro5.jpg", Price: "₹249.99", Category: "Skincare"},
	{ID: "15", Name: "Neutron Star Hair Serum", ImageRef: "img/pro1.jpg", Price: "₹139.99", Category: "Haircare"},
	{ID: "16", Name: "Dark Matter Cleansing Oil", ImageRef: "img/sc.png", Price: "₹109.99", Category: "Skincare"},
	{ID: "17", Name: "Galactic Face Mask", ImageRef: "img/sec2.jpg", Price: "₹159.99", Category: "Skincare"},
	{ID: "18", Name: "Moonwalk Foot Cream", ImageRef: "img/sec6.jpg", Price: "₹119.99", Category: "Bodycare"},
	{ID: "19", Name: "Starlight Eye Cream", ImageRef: "img/skin.jpg", Price: "₹189.99", Category: "Skincare"},
	{ID: "20", Name: "Cosmic Dust Oil Blend", ImageRef: "img/sc.png", Price: "₹139.99", Category: "Bodycare"},
}
