package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/utafrali/storefront/services/storefront/internal/storage"
)

// envelope is the persisted value layout shared by every collection.
type envelope[T any] struct {
	Items []T `json:"items"`
}

// persister writes one collection under one key. Failures are logged and
// counted; the caller's in-memory state stays authoritative.
type persister[T any] struct {
	storage storage.Storage
	key     string
	logger  *slog.Logger
}

func (p persister[T]) save(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(envelope[T]{Items: items})
	if err != nil {
		p.fail(ctx, "marshal", err)
		return
	}
	if err := p.storage.Save(ctx, p.key, data); err != nil {
		p.fail(ctx, "save", err)
	}
}

func (p persister[T]) load(ctx context.Context) []T {
	data, found, err := p.storage.Load(ctx, p.key)
	if err != nil {
		loadFailures.WithLabelValues(p.key).Inc()
		p.logger.ErrorContext(ctx, "failed to load state, starting empty",
			slog.String("key", p.key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !found {
		return nil
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		loadFailures.WithLabelValues(p.key).Inc()
		p.logger.ErrorContext(ctx, "discarding unreadable state",
			slog.String("key", p.key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return env.Items
}

func (p persister[T]) fail(ctx context.Context, stage string, err error) {
	persistFailures.WithLabelValues(p.key).Inc()
	p.logger.ErrorContext(ctx, "failed to persist state",
		slog.String("key", p.key),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}
