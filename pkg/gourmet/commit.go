package gourmet

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Committer materializes an edited View into the next full table image
// and overwrites the store with it. The guard rule: a view built under an
// active filter is never committed, because the overwrite would silently
// drop every row outside the filter.
type Committer struct {
	store Store

	// Serializes read-materialize-overwrite across concurrent sessions in
	// this process. Last writer still wins across processes.
	mu sync.Mutex
}

func NewCommitter(store Store) *Committer {
	return &Committer{store: store}
}

// Commit validates and writes the view's rows as the new table image.
// The filter check runs before anything else; no store call happens when
// it fails. Returns the image the caller should treat as authoritative.
func (c *Committer) Commit(ctx context.Context, view *View) (TableImage, error) {
	if view.Filtered() {
		log.Debugf("commit refused, filter %q active", view.Query)
		return nil, ErrFilterActive
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	values, err := c.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	current := Normalize(values)

	// No row identity exists, so rows align positionally with the freshly
	// loaded image. An unfiltered view has a fixed row count; a mismatch
	// means the sheet changed underneath and the edit session is stale.
	if len(view.Rows) != len(current) {
		return nil, &ValidationError{
			Row:     -1,
			Field:   "rows",
			Message: "row count does not match the sheet, reload and edit again",
		}
	}

	kept := make(TableImage, 0, len(view.Rows))
	for i := range view.Rows {
		row := view.Rows[i]
		// createdAt is immutable: whatever the session submitted, keep the
		// stored value.
		row.CreatedAt = current[i].CreatedAt
		if row.Delete {
			continue
		}
		if err := row.Validate(i); err != nil {
			return nil, err
		}
		kept = append(kept, row.Record)
	}

	if err := c.store.Overwrite(ctx, Denormalize(kept)); err != nil {
		return nil, err
	}
	log.Infof("committed %d rows (%d deleted)", len(kept), len(current)-len(kept))
	return kept, nil
}
