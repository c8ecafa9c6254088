package ledger

import (
	"context"
	"testing"

	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/store"
)

func newTestLedger(t *testing.T) (*Ledger, *store.MemoryTabularStore) {
	t.Helper()
	st := store.NewMemoryTabularStore()
	return New(st, nil), st
}

func countOf(t *testing.T, l *Ledger, userID string, cat model.Category, name string) int {
	t.Helper()
	owned, err := l.Inventory(context.Background(), userID)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	for _, c := range owned {
		if c.Category == cat && c.Name == name {
			return c.Count
		}
	}
	return 0
}

func TestAddRemoveRoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if err := l.AddCard(ctx, "u1", model.CategoryStudents, "Alice"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.AddCard(ctx, "u1", model.CategoryStudents, "Alice"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := countOf(t, l, "u1", model.CategoryStudents, "Alice"); got != 2 {
		t.Fatalf("count=%d, want 2", got)
	}

	ok, err := l.RemoveCard(ctx, "u1", model.CategoryStudents, "Alice")
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	if got := countOf(t, l, "u1", model.CategoryStudents, "Alice"); got != 1 {
		t.Fatalf("count=%d, want 1", got)
	}
}

func TestRemoveBeyondCountFails(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if err := l.AddCard(ctx, "u1", model.CategoryOther, "Bob"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if ok, _ := l.RemoveCard(ctx, "u1", model.CategoryOther, "Bob"); !ok {
		t.Fatal("first remove should succeed")
	}
	// The cell is cleared; further removes fail and never go negative.
	if ok, err := l.RemoveCard(ctx, "u1", model.CategoryOther, "Bob"); ok || err != nil {
		t.Fatalf("second remove: ok=%v err=%v, want false nil", ok, err)
	}
	if got := countOf(t, l, "u1", model.CategoryOther, "Bob"); got != 0 {
		t.Fatalf("count=%d, want 0", got)
	}
}

func TestRemoveUnknownCard(t *testing.T) {
	l, _ := newTestLedger(t)

	ok, err := l.RemoveCard(context.Background(), "u1", model.CategorySecret, "Nobody")
	if ok || err != nil {
		t.Fatalf("remove unknown: ok=%v err=%v, want false nil", ok, err)
	}
}

func TestRemoveMalformedCountFails(t *testing.T) {
	l, st := newTestLedger(t)
	st.Seed(store.TableInventory, [][]string{
		{"Students", "Alice", "u1:banana"},
	})

	ok, err := l.RemoveCard(context.Background(), "u1", model.CategoryStudents, "Alice")
	if ok || err != nil {
		t.Fatalf("remove malformed: ok=%v err=%v, want false nil", ok, err)
	}
}

func TestInventorySkipsMalformedCells(t *testing.T) {
	l, st := newTestLedger(t)
	st.Seed(store.TableInventory, [][]string{
		{"Students", "Alice", "garbage", "u1:2"},
		{"Other", "Bob", "u1:zero"},
		{"Teachers"}, // short row
	})

	owned, err := l.Inventory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(owned) != 1 || owned[0].Name != "Alice" || owned[0].Count != 2 {
		t.Fatalf("owned=%+v, want one Alice x2", owned)
	}
}

func TestRowSharedBetweenUsers(t *testing.T) {
	l, st := newTestLedger(t)
	ctx := context.Background()

	if err := l.AddCard(ctx, "u1", model.CategoryMaster, "Yoda"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.AddCard(ctx, "u2", model.CategoryMaster, "Yoda"); err != nil {
		t.Fatalf("add: %v", err)
	}

	rows, _ := st.ListRows(ctx, store.TableInventory)
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want 1 shared row", len(rows))
	}
	if got := countOf(t, l, "u2", model.CategoryMaster, "Yoda"); got != 1 {
		t.Fatalf("u2 count=%d, want 1", got)
	}
}

func TestRanking(t *testing.T) {
	l, st := newTestLedger(t)
	st.Seed(store.TableInventory, [][]string{
		{"A", "x", "u1:2", "u2:1"},
		{"B", "y", "u1:3"},
	})

	ranking, err := l.Ranking(context.Background())
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(ranking) != 2 {
		t.Fatalf("entries=%d, want 2", len(ranking))
	}
	if ranking[0].UserID != "u1" || ranking[0].Total != 5 {
		t.Fatalf("first=%+v, want u1 total 5", ranking[0])
	}
	if ranking[1].UserID != "u2" || ranking[1].Total != 1 {
		t.Fatalf("second=%+v, want u2 total 1", ranking[1])
	}
}

func TestRankingTiesKeepEncounterOrder(t *testing.T) {
	l, st := newTestLedger(t)
	st.Seed(store.TableInventory, [][]string{
		{"A", "x", "first:2"},
		{"A", "y", "second:2"},
	})

	ranking, err := l.Ranking(context.Background())
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if ranking[0].UserID != "first" || ranking[1].UserID != "second" {
		t.Fatalf("tie order=%v,%v, want first,second", ranking[0].UserID, ranking[1].UserID)
	}
}
