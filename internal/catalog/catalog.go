package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"surf-storefront/internal/domain"
)

//go:embed menu.yaml
var defaultMenu []byte

// Catalog is the fixed product mapping for the storefront. It is built once
// at startup and never mutated, so reads need no locking.
type Catalog struct {
	products   map[string]domain.Product
	order      []string
	categories []domain.Category
}

type menuFile struct {
	Categories []string      `yaml:"categories"`
	Products   []menuProduct `yaml:"products"`
}

type menuProduct struct {
	ID             string      `yaml:"id"`
	Name           string      `yaml:"name"`
	Description    string      `yaml:"description"`
	Category       string      `yaml:"category"`
	BasePrice      int64       `yaml:"base_price"`
	Image          string      `yaml:"image"`
	Sizes          []menuPrice `yaml:"sizes"`
	ModifierGroups []menuGroup `yaml:"modifier_groups"`
}

type menuGroup struct {
	Name    string      `yaml:"name"`
	Options []menuPrice `yaml:"options"`
}

type menuPrice struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

// Load builds a Catalog from the YAML menu at path, or from the embedded
// default menu when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultMenu
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read menu: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a Catalog from raw YAML menu data.
func Parse(data []byte) (*Catalog, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("menu has no products")
	}

	c := &Catalog{products: make(map[string]domain.Product, len(file.Products))}
	for _, raw := range file.Categories {
		cat := domain.Category(raw)
		if !cat.Valid() {
			return nil, fmt.Errorf("unknown category %q", raw)
		}
		c.categories = append(c.categories, cat)
	}

	for _, mp := range file.Products {
		if mp.ID == "" || mp.Name == "" {
			return nil, fmt.Errorf("product entry missing id or name")
		}
		cat := domain.Category(mp.Category)
		if !cat.Valid() {
			return nil, fmt.Errorf("product %s: unknown category %q", mp.ID, mp.Category)
		}
		if _, dup := c.products[mp.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", mp.ID)
		}
		p := domain.Product{
			ID:          mp.ID,
			Name:        mp.Name,
			Description: mp.Description,
			Category:    cat,
			BasePrice:   mp.BasePrice,
			Image:       mp.Image,
		}
		for _, s := range mp.Sizes {
			p.Sizes = append(p.Sizes, domain.SizeOption{Name: s.Name, Price: s.Price})
		}
		for _, g := range mp.ModifierGroups {
			group := domain.ModifierGroup{Name: g.Name}
			for _, o := range g.Options {
				group.Options = append(group.Options, domain.ModifierOption{Name: o.Name, Price: o.Price})
			}
			p.ModifierGroups = append(p.ModifierGroups, group)
		}
		c.products[mp.ID] = p
		c.order = append(c.order, mp.ID)
	}
	return c, nil
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// Products returns all products in menu order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// ByCategory returns products of one category in menu order.
func (c *Catalog) ByCategory(cat domain.Category) []domain.Product {
	var out []domain.Product
	for _, id := range c.order {
		if p := c.products[id]; p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the menu's category list.
func (c *Catalog) Categories() []domain.Category {
	return append([]domain.Category(nil), c.categories...)
}
