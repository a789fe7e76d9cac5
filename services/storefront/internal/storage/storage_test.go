package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/services/storefront/internal/storage"
	"github.com/utafrali/storefront/services/storefront/internal/storage/memory"
)

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := storage.WithPrefix(backend, storage.SessionPrefix("abc"))

	require.NoError(t, s.Save(ctx, "cart-storage", []byte(`{"items":[]}`)))

	raw, found, err := backend.Load(ctx, "session:abc:cart-storage")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"items":[]}`, string(raw))

	_, found, err = backend.Load(ctx, "cart-storage")
	require.NoError(t, err)
	assert.False(t, found)

	raw, found, err = s.Load(ctx, "cart-storage")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"items":[]}`, string(raw))
}
