package domain

import (
	"sort"
	"strings"
)

// CartLine is one purchasable configuration (product+size+options) and its
// quantity. Prices are in minor currency units and already include modifier
// surcharges; totals are never recomputed from the catalog.
type CartLine struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Size      string   `json:"size"`
	Options   []string `json:"options,omitempty"`
	UnitPrice int64    `json:"unitPrice"`
	Quantity  int      `json:"quantity"`
	ImageRef  string   `json:"imageRef,omitempty"`
}

// Total is quantity times unit price for this line.
func (l CartLine) Total() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// MergeKey identifies lines that collapse into one on add: same product, same
// size, same multiset of options.
func (l CartLine) MergeKey() string {
	opts := append([]string(nil), l.Options...)
	sort.Strings(opts)
	return l.ProductID + "\x00" + l.Size + "\x00" + strings.Join(opts, "\x00")
}
