package draw

import (
	"context"
	"testing"
	"time"

	"citadelle-cards-api/internal/catalog"
	"citadelle-cards-api/internal/ledger"
	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/store"
)

func newTestSelector(t *testing.T, rows [][]string) *Selector {
	t.Helper()

	st := store.NewMemoryTabularStore()
	st.Seed(store.TableInventory, rows)

	// Empty catalog: full-variant checks fall back to the name marker.
	cat := catalog.New(store.NewMemoryFileStore(), nil)
	s := NewSelector(ledger.New(st, nil), cat, time.UTC)
	s.SetNow(func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) })
	return s
}

func refs(picks []model.CardRef) map[model.CardRef]bool {
	m := make(map[model.CardRef]bool, len(picks))
	for _, p := range picks {
		m[p] = true
	}
	return m
}

func TestSelectDailyIsStableWithinADay(t *testing.T) {
	rows := [][]string{
		{"Students", "a", "u1:1"},
		{"Students", "b", "u1:2"},
		{"Other", "c", "u1:1"},
		{"Other", "d", "u1:1"},
		{"Teachers", "e", "u1:3"},
		{"Master", "f", "u1:1"},
	}
	s := newTestSelector(t, rows)
	ctx := context.Background()

	first, err := s.SelectDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	second, err := s.SelectDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if len(first) != SacrificeCount {
		t.Fatalf("picked %d cards, want %d", len(first), SacrificeCount)
	}
	if len(first) != len(second) {
		t.Fatalf("repeat selection length differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("selection not stable at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSelectDailyChangesAcrossDaysAndUsers(t *testing.T) {
	rows := [][]string{
		{"Students", "a", "u1:1", "u2:1"},
		{"Students", "b", "u1:1", "u2:1"},
		{"Other", "c", "u1:1", "u2:1"},
		{"Other", "d", "u1:1", "u2:1"},
		{"Teachers", "e", "u1:1", "u2:1"},
		{"Master", "f", "u1:1", "u2:1"},
		{"Master", "g", "u1:1", "u2:1"},
		{"Secret", "h", "u1:1", "u2:1"},
	}
	s := newTestSelector(t, rows)
	ctx := context.Background()

	day1, _ := s.SelectDaily(ctx, "u1")
	otherUser, _ := s.SelectDaily(ctx, "u2")

	s.SetNow(func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) })
	day2, _ := s.SelectDaily(ctx, "u1")

	// Seeds differ, so the full ordered selections should too. (Equal
	// sets in a different order would still count as different here,
	// which is what stability-per-day means.)
	same := func(a, b []model.CardRef) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
	if same(day1, day2) {
		t.Error("selection identical across days")
	}
	if same(day1, otherUser) {
		t.Error("selection identical across users")
	}
}

func TestSelectDailyDistinctAndBounded(t *testing.T) {
	rows := [][]string{
		{"Students", "a", "u1:10"},
		{"Students", "b", "u1:1"},
		{"Other", "c", "u1:1"},
	}
	s := newTestSelector(t, rows)

	picks, err := s.SelectDaily(context.Background(), "u1")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	// Only 3 distinct cards exist; the attempt budget may stop earlier,
	// but picks are always distinct and never exceed the owned set.
	if len(picks) > 3 {
		t.Fatalf("picked %d cards from 3 distinct", len(picks))
	}
	if len(refs(picks)) != len(picks) {
		t.Fatalf("duplicate picks: %v", picks)
	}
}

func TestSelectDailyExcludesFullVariants(t *testing.T) {
	rows := [][]string{
		{"Students", "a", "u1:1"},
		{"Students", "b (Full)", "u1:50"},
	}
	s := newTestSelector(t, rows)

	picks, err := s.SelectDaily(context.Background(), "u1")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, p := range picks {
		if p.Name == "b (Full)" {
			t.Fatal("full variant offered for sacrifice")
		}
	}
}

func TestSelectDailyEmptyInventory(t *testing.T) {
	s := newTestSelector(t, nil)

	picks, err := s.SelectDaily(context.Background(), "u1")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(picks) != 0 {
		t.Fatalf("picked %d cards from empty inventory", len(picks))
	}
}
