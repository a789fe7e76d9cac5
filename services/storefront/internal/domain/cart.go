package domain

import "github.com/shopspring/decimal"

// Variant describes the selected option set of a line item, e.g. size and colour.
type Variant struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// LineItem is one cart row. At most one LineItem exists per ItemKey.
type LineItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	VariantID string   `json:"variantId,omitempty"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Image     string   `json:"image"`
	Quantity  int      `json:"quantity"`
	Variant   *Variant `json:"variant,omitempty"`
}

// ItemKey is the composite identity of a line item. An empty VariantID
// means the product has no variant selected.
type ItemKey struct {
	ProductID string
	VariantID string
}

// Key returns the identity of the line item.
func (i LineItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

// Subtotal returns price × quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineItems is an ordered cart collection.
type LineItems []LineItem

// TotalItems returns the sum of all quantities.
func (items LineItems) TotalItems() int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// TotalPrice returns the sum of price times quantity. It is computed in
// decimal so that binary floating point error does not accumulate across
// rows.
func (items LineItems) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// IndexOf returns the position of the item with key k, or -1.
func (items LineItems) IndexOf(k ItemKey) int {
	for i := range items {
		if items[i].Key() == k {
			return i
		}
	}
	return -1
}
