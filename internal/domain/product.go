package domain

// Category groups menu products. The set is closed.
type Category string

const (
	CategoryCoffee Category = "coffee"
	CategoryDrinks Category = "drinks"
	CategoryFood   Category = "food"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCoffee, CategoryDrinks, CategoryFood:
		return true
	}
	return false
}

// Product is a read-only menu entry. Products are never mutated at runtime;
// they come from a fixed catalog loaded at startup.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       Category        `json:"category"`
	BasePrice      int64           `json:"basePrice"`
	Image          string          `json:"image,omitempty"`
	Sizes          []SizeOption    `json:"sizes,omitempty"`
	ModifierGroups []ModifierGroup `json:"modifierGroups,omitempty"`
}

// SizeOption is a purchasable size with its absolute price in minor units.
type SizeOption struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type ModifierGroup struct {
	Name    string           `json:"name"`
	Options []ModifierOption `json:"options"`
}

// ModifierOption carries the surcharge added on top of the size price.
type ModifierOption struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// PriceFor resolves the unit price for a size plus selected modifier options.
// Unknown size falls back to the base price; unknown options cost nothing.
func (p Product) PriceFor(size string, options []string) int64 {
	price := p.BasePrice
	for _, s := range p.Sizes {
		if s.Name == size {
			price = s.Price
			break
		}
	}
	for _, opt := range options {
		for _, g := range p.ModifierGroups {
			for _, o := range g.Options {
				if o.Name == opt {
					price += o.Price
				}
			}
		}
	}
	return price
}
