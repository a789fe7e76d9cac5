package domain

// WishlistEntry is a saved product. At most one entry exists per ProductID.
type WishlistEntry struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

// ToLineItem converts the entry into a cart candidate without a variant.
func (e WishlistEntry) ToLineItem() LineItem {
	return LineItem{
		ProductID: e.ProductID,
		Name:      e.Name,
		Price:     e.Price,
		Image:     e.Image,
	}
}
