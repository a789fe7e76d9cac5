// Package query filters and orders the product catalog for list and search
// views. It never mutates its input.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/utafrali/storefront/services/storefront/internal/domain"
)

// Sort selects the result ordering.
type Sort string

const (
	SortFeatured  Sort = "featured"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
	SortNewest    Sort = "newest"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// Params are the list-view inputs, usually taken from the URL.
type Params struct {
	Category string
	Search   string
	Sort     Sort
}

// ParseParams reads category, search (or q) and sort from URL query values.
// Values are used as given; whitespace in search is part of the needle.
// Unknown sort values select the featured ordering.
func ParseParams(v url.Values) Params {
	search := v.Get("search")
	if search == "" {
		search = v.Get("q")
	}
	return Params{
		Category: v.Get("category"),
		Search:   search,
		Sort:     normalizeSort(Sort(v.Get("sort"))),
	}
}

func normalizeSort(s Sort) Sort {
	switch s {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return s
	default:
		return SortFeatured
	}
}

// Query returns the catalog products that match p, ordered by p.Sort. Every
// ordering is stable with respect to catalog order. The result is a new
// slice and is never nil.
func Query(catalog []domain.Product, p Params) []domain.Product {
	needle := strings.ToLower(p.Search)

	out := make([]domain.Product, 0, len(catalog))
	for _, prod := range catalog {
		if p.Category != "" && p.Category != CategoryAll && prod.Category != p.Category {
			continue
		}
		if needle != "" && !matches(prod, needle) {
			continue
		}
		out = append(out, prod)
	}

	sort.SliceStable(out, less(out, normalizeSort(p.Sort)))
	return out
}

func matches(p domain.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func less(ps []domain.Product, s Sort) func(i, j int) bool {
	switch s {
	case SortPriceLow:
		return func(i, j int) bool { return ps[i].Price < ps[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return ps[i].Price > ps[j].Price }
	case SortRating:
		return func(i, j int) bool { return ps[i].Rating > ps[j].Rating }
	case SortNewest:
		return func(i, j int) bool {
			a, aok := numericID(ps[i].ID)
			b, bok := numericID(ps[j].ID)
			if aok != bok {
				return aok
			}
			return aok && a > b
		}
	default:
		return func(i, j int) bool {
			if ps[i].Featured != ps[j].Featured {
				return ps[i].Featured
			}
			return ps[i].Rating > ps[j].Rating
		}
	}
}

// numericID parses a base-10 integer id. Anything else, including NaN,
// infinities and hex or decimal fractions, is non-numeric.
func numericID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
