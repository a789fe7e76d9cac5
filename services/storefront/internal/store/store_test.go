package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/services/storefront/internal/notify"
)

// mockNotifier is a testify mock implementing Notifier.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) AddedToCart(origin notify.AnchorSource) string {
	args := m.Called(origin)
	return args.String(0)
}

func (m *mockNotifier) AddedToWishlist(origin notify.AnchorSource) string {
	args := m.Called(origin)
	return args.String(0)
}

// failingStorage rejects every call.
type failingStorage struct{}

func (failingStorage) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}

func (failingStorage) Save(context.Context, string, []byte) error {
	return errors.New("backend down")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope[T any](t *testing.T, raw []byte) []T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(raw, &env))
	return env.Items
}
