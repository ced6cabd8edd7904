package render

import (
	"fmt"
	"strconv"

	"sports_dashboard/internal/domain"
)

// ShopCategories is the display order of the shop sections.
var ShopCategories = []string{
	"Sports Fest Jackets",
	"Varsity Jackets",
	"Jerseys",
	"Accessories",
}

const EmptyCart = "Your cart is empty"

type ProductCard struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Subtitle   string  `json:"subtitle,omitempty"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	PriceLabel string  `json:"price_label"`
	InStock    bool    `json:"in_stock"`
}

type ShopSection struct {
	Category string        `json:"category"`
	Products []ProductCard `json:"products"`
}

type ShopView struct {
	Sections []ShopSection `json:"sections"`
}

// Shop groups products under the fixed shop categories; products in any other
// category are not shown.
func Shop(products []domain.Product) ShopView {
	byCategory := make(map[string][]ProductCard, len(ShopCategories))
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], ProductCard{
			ID:         p.ID,
			Name:       p.Name,
			Subtitle:   p.Subtitle,
			Image:      p.Image,
			Price:      p.Price,
			PriceLabel: strconv.FormatFloat(p.Price, 'f', -1, 64) + " AED",
			InStock:    p.InStock,
		})
	}

	view := ShopView{Sections: make([]ShopSection, 0, len(ShopCategories))}
	for _, c := range ShopCategories {
		cards := byCategory[c]
		if cards == nil {
			cards = []ProductCard{}
		}
		view.Sections = append(view.Sections, ShopSection{Category: c, Products: cards})
	}
	return view
}

type CartLine struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	PriceLabel string `json:"price_label"`
}

type CartView struct {
	Lines        []CartLine `json:"lines"`
	Count        int        `json:"count"`
	Total        float64    `json:"total"`
	TotalLabel   string     `json:"total_label"`
	EmptyMessage string     `json:"empty_message,omitempty"`
}

func Cart(items []domain.CartItem) CartView {
	view := CartView{Lines: make([]CartLine, 0, len(items)), Count: len(items)}
	for i, it := range items {
		view.Total += it.Price
		view.Lines = append(view.Lines, CartLine{
			Index:      i,
			Name:       it.Name,
			PriceLabel: fmt.Sprintf("%.2f AED", it.Price),
		})
	}
	view.TotalLabel = fmt.Sprintf("%.2f", view.Total)
	if len(items) == 0 {
		view.EmptyMessage = EmptyCart
	}
	return view
}
