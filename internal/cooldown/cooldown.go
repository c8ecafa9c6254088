// Package cooldown gates actions to once per calendar day per user.
// Daily draws and sacrificial draws each get their own tracker over their
// own table; rows are [userID, YYYY-MM-DD].
package cooldown

import (
	"context"
	"fmt"
	"time"

	"citadelle-cards-api/internal/store"
)

// Tracker tracks one action type's last-performed date per user.
type Tracker struct {
	store store.TabularStore
	table string
	loc   *time.Location
	now   func() time.Time
}

// New creates a tracker over the given table, comparing dates in the
// given fixed timezone. The gate rolls over at that timezone's midnight
// regardless of when the previous action happened.
func New(st store.TabularStore, table string, loc *time.Location) *Tracker {
	return &Tracker{store: st, table: table, loc: loc, now: time.Now}
}

// SetNow overrides the clock. Test helper.
func (t *Tracker) SetNow(now func() time.Time) { t.now = now }

// today is computed once per call; concurrent calls straddling midnight
// may disagree, which is accepted.
func (t *Tracker) today() string {
	return t.now().In(t.loc).Format("2006-01-02")
}

// CanAct reports whether the user has not yet acted today.
func (t *Tracker) CanAct(ctx context.Context, userID string) (bool, error) {
	rows, err := t.store.ListRows(ctx, t.table)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", t.table, err)
	}

	today := t.today()
	for _, row := range rows {
		if len(row) > 0 && row[0] == userID {
			return len(row) < 2 || row[1] != today, nil
		}
	}
	return true, nil
}

// RecordAction stores today's date for the user, updating the existing
// row in place or appending a new one.
func (t *Tracker) RecordAction(ctx context.Context, userID string) error {
	rows, err := t.store.ListRows(ctx, t.table)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", t.table, err)
	}

	today := t.today()
	for i, row := range rows {
		if len(row) > 0 && row[0] == userID {
			if err := t.store.UpdateRow(ctx, t.table, i, []string{userID, today}); err != nil {
				return fmt.Errorf("failed to record action in %s: %w", t.table, err)
			}
			return nil
		}
	}
	if err := t.store.AppendRow(ctx, t.table, []string{userID, today}); err != nil {
		return fmt.Errorf("failed to record action in %s: %w", t.table, err)
	}
	return nil
}
