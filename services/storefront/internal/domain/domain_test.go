package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItems_Totals(t *testing.T) {
	items := LineItems{
		{ProductID: "1", Price: 19.99, Quantity: 3},
		{ProductID: "2", VariantID: "xl", Price: 0.1, Quantity: 2},
	}

	assert.Equal(t, 5, items.TotalItems())
	assert.Equal(t, "60.17", items.TotalPrice().StringFixed(2))
	assert.True(t, items.TotalPrice().Equal(items[0].Subtotal().Add(items[1].Subtotal())))
}

func TestLineItems_Empty(t *testing.T) {
	var items LineItems
	assert.Zero(t, items.TotalItems())
	assert.True(t, items.TotalPrice().IsZero())
}

func TestLineItems_IndexOf(t *testing.T) {
	items := LineItems{
		{ProductID: "1"},
		{ProductID: "1", VariantID: "red"},
	}
	assert.Equal(t, 0, items.IndexOf(ItemKey{ProductID: "1"}))
	assert.Equal(t, 1, items.IndexOf(ItemKey{ProductID: "1", VariantID: "red"}))
	assert.Equal(t, -1, items.IndexOf(ItemKey{ProductID: "1", VariantID: "blue"}))
}

func TestLineItem_JSONLayout(t *testing.T) {
	raw, err := json.Marshal(LineItem{ID: "a", ProductID: "1", Name: "Laptop", Price: 1000, Quantity: 1})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "1", m["productId"])
	assert.NotContains(t, m, "variantId")
	assert.NotContains(t, m, "variant")
}

func TestProduct_OnSale(t *testing.T) {
	orig := 120.0
	assert.True(t, Product{Price: 99, OriginalPrice: &orig}.OnSale())
	assert.False(t, Product{Price: 99}.OnSale())
}

func TestNotificationKind_IsValid(t *testing.T) {
	for _, k := range []NotificationKind{KindSuccess, KindError, KindWarning, KindInfo} {
		assert.True(t, k.IsValid())
	}
	assert.False(t, NotificationKind("fatal").IsValid())
}

func TestRect_Geometry(t *testing.T) {
	r := Rect{Left: 100, Top: 50, Width: 40, Height: 20}
	assert.Equal(t, 120.0, r.CenterX())
	assert.Equal(t, 70.0, r.Bottom())
}

func TestNotification_ActionNotSerialized(t *testing.T) {
	n := Notification{ID: "n1", Kind: KindInfo, Action: &Action{Label: "Undo", Invoke: func() {}}}
	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"label":"Undo"`)
	assert.NotContains(t, string(raw), "Invoke")
}
