package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/services/storefront/internal/domain"
	"github.com/utafrali/storefront/services/storefront/internal/notify"
	"github.com/utafrali/storefront/services/storefront/internal/storage/memory"
)

func newTestCart(t *testing.T) (*Cart, *memory.Storage, *mockNotifier) {
	t.Helper()
	backend := memory.New()
	n := new(mockNotifier)
	n.On("AddedToCart", mock.Anything).Return("n-1").Maybe()
	c := NewCart(Options{Storage: backend, Notifier: n, Logger: discardLogger()})
	return c, backend, n
}

func laptop() domain.LineItem {
	return domain.LineItem{ProductID: "1", Name: "Laptop", Price: 1000, Image: "laptop.jpg"}
}

func TestCart_AddItem_MergesIdenticalKeys(t *testing.T) {
	c, _, n := newTestCart(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c.AddItem(ctx, laptop(), nil)
	}

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, c.TotalItems())
	n.AssertNumberOfCalls(t, "AddedToCart", 3)
}

func TestCart_AddItem_DoesNotOverwriteFields(t *testing.T) {
	c, _, _ := newTestCart(t)
	ctx := context.Background()

	first := c.AddItem(ctx, laptop(), nil)
	changed := laptop()
	changed.Name = "Renamed"
	changed.Price = 1
	changed.ID = "other-id"
	second := c.AddItem(ctx, changed, nil)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Laptop", second.Name)
	assert.Equal(t, 1000.0, second.Price)
	assert.Equal(t, 2, second.Quantity)
}

func TestCart_AddItem_IgnoresCandidateQuantity(t *testing.T) {
	c, _, _ := newTestCart(t)
	it := laptop()
	it.Quantity = 9
	got := c.AddItem(context.Background(), it, nil)
	assert.Equal(t, 1, got.Quantity)
	assert.NotEmpty(t, got.ID)
}

func TestCart_VariantsAreDistinctRows(t *testing.T) {
	c, _, _ := newTestCart(t)
	ctx := context.Background()

	red := laptop()
	red.VariantID = "red"
	red.Variant = &domain.Variant{Name: "Red", Attributes: map[string]string{"color": "red"}}

	c.AddItem(ctx, laptop(), nil)
	c.AddItem(ctx, red, nil)
	c.AddItem(ctx, red, nil)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, "Red", items[1].Variant.Name)
}

func TestCart_AddItem_PassesOriginToNotifier(t *testing.T) {
	backend := memory.New()
	n := new(mockNotifier)
	origin := notify.Origin{Bounds: domain.Rect{Left: 1, Top: 2, Width: 3, Height: 4}}
	n.On("AddedToCart", origin).Return("n-1").Once()

	c := NewCart(Options{Storage: backend, Notifier: n, Logger: discardLogger()})
	c.AddItem(context.Background(), laptop(), origin)

	n.AssertExpectations(t)
}

func TestCart_Totals(t *testing.T) {
	c, _, _ := newTestCart(t)
	ctx := context.Background()

	c.AddItem(ctx, domain.LineItem{ProductID: "1", Price: 19.99}, nil)
	c.UpdateQuantity(ctx, "1", 3, "")
	c.AddItem(ctx, domain.LineItem{ProductID: "2", Price: 5.5}, nil)

	assert.Equal(t, 4, c.TotalItems())
	assert.Equal(t, "65.47", c.TotalPrice().StringFixed(2))
}

func TestCart_UpdateQuantity(t *testing.T) {
	c, backend, _ := newTestCart(t)
	ctx := context.Background()

	c.AddItem(ctx, laptop(), nil)
	c.UpdateQuantity(ctx, "1", 5, "")
	assert.Equal(t, 5, c.Items()[0].Quantity)

	raw, found, err := backend.Load(ctx, CartKey)
	require.NoError(t, err)
	require.True(t, found)
	persisted := decodeEnvelope[domain.LineItem](t, raw)
	require.Len(t, persisted, 1)
	assert.Equal(t, 5, persisted[0].Quantity)
}

func TestCart_UpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		c, _, _ := newTestCart(t)
		ctx := context.Background()
		c.AddItem(ctx, laptop(), nil)

		c.UpdateQuantity(ctx, "1", q, "")
		assert.Empty(t, c.Items(), "quantity %d", q)
	}
}

func TestCart_UpdateQuantity_MissingKeyIsNoop(t *testing.T) {
	c, _, _ := newTestCart(t)
	ctx := context.Background()
	c.AddItem(ctx, laptop(), nil)

	c.UpdateQuantity(ctx, "1", 4, "xl")
	c.UpdateQuantity(ctx, "404", 4, "")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCart_RemoveItem(t *testing.T) {
	c, backend, _ := newTestCart(t)
	ctx := context.Background()

	red := laptop()
	red.VariantID = "red"
	c.AddItem(ctx, laptop(), nil)
	c.AddItem(ctx, red, nil)

	c.RemoveItem(ctx, "1", "red")
	c.RemoveItem(ctx, "1", "red")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Empty(t, items[0].VariantID)

	raw, _, _ := backend.Load(ctx, CartKey)
	assert.Len(t, decodeEnvelope[domain.LineItem](t, raw), 1)
}

func TestCart_Restore_ReinsertsRemovedRow(t *testing.T) {
	c, backend, n := newTestCart(t)
	ctx := context.Background()

	c.AddItem(ctx, laptop(), nil)
	c.AddItem(ctx, laptop(), nil)
	removed := c.Items()[0]
	c.RemoveItem(ctx, "1", "")

	row, ok := c.Restore(ctx, removed, 100, 50)
	require.True(t, ok)
	assert.Equal(t, removed, row)
	assert.Equal(t, 2, c.TotalItems())
	n.AssertNumberOfCalls(t, "AddedToCart", 2)

	raw, _, err := backend.Load(ctx, CartKey)
	require.NoError(t, err)
	assert.Equal(t, 2, decodeEnvelope[domain.LineItem](t, raw)[0].Quantity)
}

func TestCart_Restore_AddsOntoReaddedRow(t *testing.T) {
	c, _, _ := newTestCart(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c.AddItem(ctx, laptop(), nil)
	}
	removed := c.Items()[0]
	c.RemoveItem(ctx, "1", "")
	c.AddItem(ctx, laptop(), nil)

	row, ok := c.Restore(ctx, removed, 100, 50)
	require.True(t, ok)
	assert.Equal(t, 4, row.Quantity)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, 4, c.TotalItems())
}

func TestCart_Restore_Limits(t *testing.T) {
	c, _, _ := newTestCart(t)
	ctx := context.Background()

	c.AddItem(ctx, laptop(), nil)
	row, ok := c.Restore(ctx, domain.LineItem{ProductID: "1", Quantity: 10}, 5, 0)
	require.True(t, ok)
	assert.Equal(t, 5, row.Quantity)

	_, ok = c.Restore(ctx, domain.LineItem{ProductID: "2", Name: "Mouse", Price: 25, Quantity: 1}, 5, 1)
	assert.False(t, ok)
	assert.Len(t, c.Items(), 1)

	_, ok = c.Restore(ctx, domain.LineItem{ProductID: "3", Quantity: 0}, 5, 0)
	assert.False(t, ok)
}

func TestCart_ClearCart(t *testing.T) {
	c, backend, _ := newTestCart(t)
	ctx := context.Background()
	c.AddItem(ctx, laptop(), nil)

	c.ClearCart(ctx)
	assert.Empty(t, c.Items())
	assert.Zero(t, c.TotalItems())
	assert.True(t, c.TotalPrice().IsZero())

	raw, found, err := backend.Load(ctx, CartKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"items":[]}`, string(raw))
}

func TestCart_LoadRestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	first := NewCart(Options{Storage: backend, Logger: discardLogger()})
	first.AddItem(ctx, laptop(), nil)
	first.AddItem(ctx, laptop(), nil)
	first.AddItem(ctx, domain.LineItem{ProductID: "2", Name: "Mouse", Price: 25}, nil)

	second := NewCart(Options{Storage: backend, Logger: discardLogger()})
	second.Load(ctx)

	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, 3, second.TotalItems())
}

func TestCart_LoadDropsInvalidRows(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	require.NoError(t, backend.Save(ctx, CartKey, []byte(`{"items":[
		{"productId":"1","quantity":2,"price":10},
		{"productId":"1","quantity":7,"price":10},
		{"productId":"2","quantity":0,"price":10}
	]}`)))

	c := NewCart(Options{Storage: backend, Logger: discardLogger()})
	c.Load(ctx)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.NotEmpty(t, items[0].ID)
}

func TestCart_LoadCorruptStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	require.NoError(t, backend.Save(ctx, CartKey, []byte(`not json`)))

	before := testutil.ToFloat64(loadFailures.WithLabelValues(CartKey))
	c := NewCart(Options{Storage: backend, Logger: discardLogger()})
	c.Load(ctx)

	assert.Empty(t, c.Items())
	assert.Equal(t, before+1, testutil.ToFloat64(loadFailures.WithLabelValues(CartKey)))
}

func TestCart_PersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	n := new(mockNotifier)
	n.On("AddedToCart", nil).Return("n-1").Once()
	c := NewCart(Options{Storage: failingStorage{}, Notifier: n, Logger: discardLogger()})

	before := testutil.ToFloat64(persistFailures.WithLabelValues(CartKey))
	c.Load(ctx)
	c.AddItem(ctx, laptop(), nil)

	assert.Len(t, c.Items(), 1)
	assert.Equal(t, before+1, testutil.ToFloat64(persistFailures.WithLabelValues(CartKey)))
	n.AssertExpectations(t)
}

func TestCart_Open(t *testing.T) {
	c, _, _ := newTestCart(t)
	assert.False(t, c.IsOpen())
	assert.True(t, c.ToggleOpen())
	assert.True(t, c.IsOpen())
	assert.False(t, c.ToggleOpen())
	c.SetOpen(true)
	assert.True(t, c.IsOpen())
}

func TestCart_Reset(t *testing.T) {
	c, backend, _ := newTestCart(t)
	ctx := context.Background()
	c.AddItem(ctx, laptop(), nil)
	c.SetOpen(true)

	c.Reset()
	assert.Empty(t, c.Items())
	assert.False(t, c.IsOpen())

	raw, _, _ := backend.Load(ctx, CartKey)
	assert.Len(t, decodeEnvelope[domain.LineItem](t, raw), 1)
}

func TestCart_ItemsIsACopy(t *testing.T) {
	c, _, _ := newTestCart(t)
	c.AddItem(context.Background(), laptop(), nil)

	items := c.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestCart_MutationCounter(t *testing.T) {
	c, _, _ := newTestCart(t)
	before := testutil.ToFloat64(cartMutations.WithLabelValues("clear"))
	c.ClearCart(context.Background())
	assert.Equal(t, before+1, testutil.ToFloat64(cartMutations.WithLabelValues("clear")))
}

func TestCart_DefaultOptions(t *testing.T) {
	c := NewCart(Options{})
	got := c.AddItem(context.Background(), laptop(), nil)
	assert.Equal(t, 1, got.Quantity)
}
