package cart

import (
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-checkout/internal/catalog"
	"github.com/shopspring/decimal"
)

// LineItem is a cart entry enriched with catalog data.
type LineItem struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Total returns price × quantity.
func (li LineItem) Total() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Project joins cart quantities against the catalog. Entries without a
// matching product, or with a non-positive quantity, are dropped; ids equal
// after trimming are merged into one line. The result is ordered by product id.
func Project(quantities map[string]int, products []catalog.Product) []LineItem {
	index := indexProducts(products)
	merged := normalizeQuantities(quantities)
	items := make([]LineItem, 0, len(merged))
	for id, qty := range merged {
		product, ok := index[id]
		if !ok {
			continue
		}
		items = append(items, LineItem{Product: product, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Unavailable lists the cart ids that Project drops for lack of a product, sorted.
func Unavailable(quantities map[string]int, products []catalog.Product) []string {
	index := indexProducts(products)
	missing := []string{}
	for id := range normalizeQuantities(quantities) {
		if _, ok := index[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

// Subtotal sums price × quantity over items.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}

// Quantity sums the quantities of items.
func Quantity(items []LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// normalizeQuantities trims ids and sums the positive quantities of ids that
// collapse onto the same key.
func normalizeQuantities(quantities map[string]int) map[string]int {
	merged := make(map[string]int, len(quantities))
	for id, qty := range quantities {
		if qty <= 0 {
			continue
		}
		merged[strings.TrimSpace(id)] += qty
	}
	return merged
}

func indexProducts(products []catalog.Product) map[string]catalog.Product {
	index := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		key := strings.TrimSpace(p.ID)
		p.ID = key
		index[key] = p
	}
	return index
}
