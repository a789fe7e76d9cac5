package domain

// Product is a read-only catalog record.
type Product struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	Name          string   `json:"name" yaml:"name" validate:"required"`
	Price         float64  `json:"price" yaml:"price" validate:"gt=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" yaml:"originalPrice,omitempty"`
	Category      string   `json:"category" yaml:"category" validate:"required"`
	Rating        float64  `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Reviews       int      `json:"reviews" yaml:"reviews" validate:"gte=0"`
	Tags          []string `json:"tags" yaml:"tags"`
	InStock       bool     `json:"inStock" yaml:"inStock"`
	Featured      bool     `json:"featured" yaml:"featured"`
	Image         string   `json:"image" yaml:"image"`
	Description   string   `json:"description" yaml:"description"`
}

// OnSale reports whether the product is priced below its original price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// ToLineItem converts the product into a cart candidate without a variant.
func (p Product) ToLineItem() LineItem {
	return LineItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
}

// ToWishlistEntry converts the product into a wishlist candidate.
func (p Product) ToWishlistEntry() WishlistEntry {
	return WishlistEntry{ProductID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
}
