package draw

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"citadelle-cards-api/internal/model"
)

// SacrificeCount is how many distinct cards a daily sacrifice offers.
const SacrificeCount = 5

// InventorySource supplies a user's current holdings.
type InventorySource interface {
	Inventory(ctx context.Context, userID string) ([]model.OwnedCard, error)
}

// VariantChecker reports whether a card is a full-art print.
type VariantChecker interface {
	IsFullVariant(cat model.Category, name string) bool
}

// Selector computes the fixed daily sacrifice candidate set for a user.
// The selection is seeded from (user, calendar day), so repeated views on
// the same day always show the same cards.
type Selector struct {
	inv      InventorySource
	variants VariantChecker
	loc      *time.Location
	now      func() time.Time
}

// NewSelector creates a selector using the given fixed timezone for the
// calendar-day boundary.
func NewSelector(inv InventorySource, variants VariantChecker, loc *time.Location) *Selector {
	return &Selector{inv: inv, variants: variants, loc: loc, now: time.Now}
}

// SetNow overrides the clock. Test helper.
func (s *Selector) SetNow(now func() time.Time) { s.now = now }

// SelectDaily returns up to SacrificeCount distinct owned cards for today.
// Fewer are returned when the user owns fewer distinct eligible cards;
// callers gate the sacrifice on the result length.
func (s *Selector) SelectDaily(ctx context.Context, userID string) ([]model.CardRef, error) {
	owned, err := s.inv.Inventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory for selection: %w", err)
	}

	// Count-weighted multiset: a card held three times is three times as
	// likely to be offered.
	var pool []model.CardRef
	for _, c := range owned {
		if s.variants.IsFullVariant(c.Category, c.Name) {
			continue
		}
		for i := 0; i < c.Count; i++ {
			pool = append(pool, model.CardRef{Category: c.Category, Name: c.Name})
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	day := s.now().In(s.loc).Format("2006-01-02")
	rnd := rand.New(rand.NewSource(int64(dailySeed(userID, day))))

	seen := make(map[model.CardRef]bool)
	var picks []model.CardRef
	budget := 2 * len(pool)
	for attempt := 0; attempt < budget && len(picks) < SacrificeCount; attempt++ {
		ref := pool[rnd.Intn(len(pool))]
		if seen[ref] {
			continue
		}
		seen[ref] = true
		picks = append(picks, ref)
	}
	return picks, nil
}

// dailySeed reduces SHA-256("{userID}-{day}") to an unsigned 32-bit seed.
func dailySeed(userID, day string) uint32 {
	sum := sha256.Sum256([]byte(userID + "-" + day))
	return binary.BigEndian.Uint32(sum[:4])
}
