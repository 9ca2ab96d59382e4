// Package importer converts a raw menu export (the JSON dump the storefront
// demo ships its products in) into the YAML catalog the service loads.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"surf-storefront/internal/catalog"
	"surf-storefront/internal/domain"
)

type rawExport struct {
	Products []rawProduct `json:"products"`
}

type rawProduct struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       int64            `json:"price"`
	Image       string           `json:"image"`
	Sizes       map[string]int64 `json:"sizes"`
	Modifiers   []rawModifier    `json:"modifiers"`
}

type rawModifier struct {
	Group string `json:"group"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type menuOut struct {
	Categories []string         `yaml:"categories"`
	Products   []menuProductOut `yaml:"products"`
}

type menuProductOut struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description,omitempty"`
	Category       string         `yaml:"category"`
	BasePrice      int64          `yaml:"base_price"`
	Image          string         `yaml:"image,omitempty"`
	Sizes          []menuPriceOut `yaml:"sizes,omitempty"`
	ModifierGroups []menuGroupOut `yaml:"modifier_groups,omitempty"`
}

type menuGroupOut struct {
	Name    string         `yaml:"name"`
	Options []menuPriceOut `yaml:"options"`
}

type menuPriceOut struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

// Run reads the JSON export at inPath and writes the YAML menu to outPath.
func Run(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	out, err := Convert(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write menu: %w", err)
	}
	return nil
}

// Convert turns the raw JSON export into menu YAML and validates the result
// by parsing it back through the catalog loader.
func Convert(data []byte) ([]byte, error) {
	var export rawExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	if len(export.Products) == 0 {
		return nil, fmt.Errorf("export has no products")
	}

	menu := menuOut{}
	seenCategory := map[string]bool{}
	for _, rp := range export.Products {
		if rp.ID == "" || rp.Name == "" {
			return nil, fmt.Errorf("product entry missing id or name")
		}
		if !domain.Category(rp.Category).Valid() {
			return nil, fmt.Errorf("product %s: unknown category %q", rp.ID, rp.Category)
		}
		if !seenCategory[rp.Category] {
			seenCategory[rp.Category] = true
			menu.Categories = append(menu.Categories, rp.Category)
		}

		mp := menuProductOut{
			ID:          rp.ID,
			Name:        rp.Name,
			Description: rp.Description,
			Category:    rp.Category,
			BasePrice:   rp.Price,
			Image:       rp.Image,
		}

		sizeNames := make([]string, 0, len(rp.Sizes))
		for name := range rp.Sizes {
			sizeNames = append(sizeNames, name)
		}
		sort.Slice(sizeNames, func(i, j int) bool {
			return rp.Sizes[sizeNames[i]] < rp.Sizes[sizeNames[j]]
		})
		for _, name := range sizeNames {
			mp.Sizes = append(mp.Sizes, menuPriceOut{Name: name, Price: rp.Sizes[name]})
		}

		groups := map[string]*menuGroupOut{}
		var groupOrder []string
		for _, mod := range rp.Modifiers {
			groupName := mod.Group
			if groupName == "" {
				groupName = "extras"
			}
			g, ok := groups[groupName]
			if !ok {
				g = &menuGroupOut{Name: groupName}
				groups[groupName] = g
				groupOrder = append(groupOrder, groupName)
			}
			g.Options = append(g.Options, menuPriceOut{Name: mod.Name, Price: mod.Price})
		}
		for _, name := range groupOrder {
			mp.ModifierGroups = append(mp.ModifierGroups, *groups[name])
		}

		menu.Products = append(menu.Products, mp)
	}

	out, err := yaml.Marshal(menu)
	if err != nil {
		return nil, fmt.Errorf("marshal menu: %w", err)
	}
	if _, err := catalog.Parse(out); err != nil {
		return nil, fmt.Errorf("converted menu does not load: %w", err)
	}
	return out, nil
}
