package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/services/storefront/internal/domain"
)

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ID: "1", Category: "electronics", Name: "Laptop", Tags: []string{"tech"}, Price: 1000, Rating: 4, Featured: true},
		{ID: "2", Category: "electronics", Name: "Mouse", Tags: []string{"tech"}, Price: 20, Rating: 5, Featured: false},
	}
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestQuery_CategoryPriceLow(t *testing.T) {
	got := Query(sampleCatalog(), Params{Category: "electronics", Sort: SortPriceLow})
	assert.Equal(t, []string{"2", "1"}, ids(got))
}

func TestQuery_SearchByName(t *testing.T) {
	got := Query(sampleCatalog(), Params{Search: "lap"})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestQuery_DefaultFeaturedFirst(t *testing.T) {
	got := Query(sampleCatalog(), Params{})
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestQuery_CategoryFilter(t *testing.T) {
	catalog := append(sampleCatalog(), domain.Product{ID: "3", Category: "Electronics", Name: "Cable"})

	assert.Equal(t, []string{"1", "2"}, ids(Query(catalog, Params{Category: "electronics"})))
	assert.Equal(t, []string{"3"}, ids(Query(catalog, Params{Category: "Electronics"})))
	assert.Len(t, Query(catalog, Params{Category: "all"}), 3)
	assert.Len(t, Query(catalog, Params{Category: ""}), 3)
}

func TestQuery_SearchDescriptionAndTags(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Name: "Desk", Description: "Solid OAK top"},
		{ID: "2", Name: "Chair", Tags: []string{"Ergonomic", "office"}},
		{ID: "3", Name: "Lamp"},
	}
	assert.Equal(t, []string{"1"}, ids(Query(catalog, Params{Search: "oak"})))
	assert.Equal(t, []string{"2"}, ids(Query(catalog, Params{Search: "ERGO"})))
	assert.Empty(t, Query(catalog, Params{Search: "sofa"}))
}

func TestQuery_EmptyResultIsNotNil(t *testing.T) {
	got := Query(sampleCatalog(), Params{Category: "garden"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuery_PriceHighOrdering(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Price: 10}, {ID: "2", Price: 30}, {ID: "3", Price: 20}, {ID: "4", Price: 30},
	}
	got := Query(catalog, Params{Sort: SortPriceHigh})
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Price, got[i].Price)
	}
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(got))
}

func TestQuery_StableOnTies(t *testing.T) {
	catalog := []domain.Product{
		{ID: "a", Rating: 4}, {ID: "b", Rating: 5}, {ID: "c", Rating: 4}, {ID: "d", Rating: 5},
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(Query(catalog, Params{Sort: SortRating})))

	prices := []domain.Product{{ID: "x", Price: 5}, {ID: "y", Price: 5}, {ID: "z", Price: 1}}
	assert.Equal(t, []string{"z", "x", "y"}, ids(Query(prices, Params{Sort: SortPriceLow})))
}

func TestQuery_FeaturedGroupsByRating(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Featured: false, Rating: 5},
		{ID: "2", Featured: true, Rating: 3},
		{ID: "3", Featured: true, Rating: 4.5},
		{ID: "4", Featured: false, Rating: 4},
	}
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids(Query(catalog, Params{Sort: SortFeatured})))
}

func TestQuery_Newest(t *testing.T) {
	catalog := []domain.Product{
		{ID: "2"}, {ID: "10"}, {ID: "sku-a"}, {ID: "1"}, {ID: "sku-b"},
	}
	assert.Equal(t, []string{"10", "2", "1", "sku-a", "sku-b"}, ids(Query(catalog, Params{Sort: SortNewest})))
}

func TestQuery_NewestNonFiniteIDsSortLast(t *testing.T) {
	catalog := []domain.Product{
		{ID: "NaN"}, {ID: "3"}, {ID: "Inf"}, {ID: "0x1p4"}, {ID: "12"}, {ID: "1.5"}, {ID: "7"},
	}
	got := ids(Query(catalog, Params{Sort: SortNewest}))
	assert.Equal(t, []string{"12", "7", "3", "NaN", "Inf", "0x1p4", "1.5"}, got)
}

func TestQuery_DoesNotMutateCatalog(t *testing.T) {
	catalog := sampleCatalog()
	Query(catalog, Params{Sort: SortPriceLow})
	assert.Equal(t, sampleCatalog(), catalog)
}

func TestQuery_WhitespaceSearchIsLiteral(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Name: "Wool Sweater"},
		{ID: "2", Name: "Mug"},
	}
	assert.Equal(t, []string{"1"}, ids(Query(catalog, Params{Search: " "})))
}

func TestQuery_UnknownSortIsFeatured(t *testing.T) {
	got := Query(sampleCatalog(), Params{Sort: "bogus"})
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestParseParams(t *testing.T) {
	p := ParseParams(url.Values{"category": {"electronics"}, "search": {"lap"}, "sort": {"price-high"}})
	assert.Equal(t, Params{Category: "electronics", Search: "lap", Sort: SortPriceHigh}, p)

	p = ParseParams(url.Values{"search": {" "}})
	assert.Equal(t, " ", p.Search)

	p = ParseParams(url.Values{"q": {"mouse"}, "sort": {"cheapest"}})
	assert.Equal(t, Params{Search: "mouse", Sort: SortFeatured}, p)

	assert.Equal(t, Params{Sort: SortFeatured}, ParseParams(url.Values{}))
}
