package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shelfsage/shelfsage/internal/db"
	"github.com/shelfsage/shelfsage/internal/domain"
	"github.com/shelfsage/shelfsage/internal/logger"

	"go.uber.org/zap"
)

const historyKey = "shelfsage:history"

// Repository keeps a capped list of recent recommendation queries.
type Repository struct {
	store      db.ListStore
	maxEntries int
}

// New creates a history repository. maxEntries caps the retained list.
func New(store db.ListStore, maxEntries int) *Repository {
	return &Repository{store: store, maxEntries: maxEntries}
}

// Record prepends an entry and trims the list to the configured cap.
func (r *Repository) Record(ctx context.Context, entry domain.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	if err := r.store.LPush(ctx, historyKey, string(data)); err != nil {
		return fmt.Errorf("push history entry: %w", err)
	}

	if err := r.store.LTrim(ctx, historyKey, 0, int64(r.maxEntries)-1); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	return nil
}

// List returns up to limit entries, most recent first. Entries that fail to
// parse are skipped with a warning rather than failing the whole read.
func (r *Repository) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > r.maxEntries {
		limit = r.maxEntries
	}

	items, err := r.store.LRange(ctx, historyKey, 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry domain.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			logger.FromContext(ctx).Warn("Skipping malformed history entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
