// Package catalog loads the read-only product catalog served to list,
// detail and search views.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/utafrali/storefront/pkg/validator"
	"github.com/utafrali/storefront/services/storefront/internal/domain"
)

//go:embed products.yaml
var seed []byte

type document struct {
	Products []domain.Product `yaml:"products"`
}

// Catalog is an immutable, ordered product list. Accessors return copies.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// Load reads the catalog from path, or from the embedded seed when path is
// empty.
func Load(path string) (*Catalog, error) {
	data := seed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document and validates every product.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Products)
}

// New builds a Catalog from products, keeping their order. Product ids must
// be unique.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		if err := validator.Validate(p); err != nil {
			return nil, fmt.Errorf("product %d (%q): %w", i, p.ID, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product %d: duplicate id %q", i, p.ID)
		}
		c.byID[p.ID] = i
		c.products[i] = clone(p)
	}
	return c, nil
}

// Products returns the catalog in its original order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	for i, p := range c.products {
		out[i] = clone(p)
	}
	return out
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return clone(c.products[i]), true
}

// Categories returns the distinct categories in sorted order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

func clone(p domain.Product) domain.Product {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	return p
}
