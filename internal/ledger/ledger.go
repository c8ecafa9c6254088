package ledger

import (
	"context"
	"fmt"
	"sort"

	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/store"
)

// ImageResolver maps a card to its backing image file, or "".
type ImageResolver interface {
	ImageID(cat model.Category, name string) string
}

// Ledger reads and mutates the inventory table. Every mutation is a plain
// read-then-write against the store; the store offers no transactions, so
// concurrent writers can race (accepted, see the store contract).
type Ledger struct {
	store  store.TabularStore
	images ImageResolver
}

// New creates a ledger. images may be nil when display annotation is not
// needed (tests).
func New(st store.TabularStore, images ImageResolver) *Ledger {
	return &Ledger{store: st, images: images}
}

// AddCard grants the user one copy of a card: find-or-create the card's
// row, find-or-create the user's cell, increment, write the row back.
func (l *Ledger) AddCard(ctx context.Context, userID string, cat model.Category, name string) error {
	rows, err := l.store.ListRows(ctx, store.TableInventory)
	if err != nil {
		return fmt.Errorf("failed to read inventory: %w", err)
	}

	idx := findCardRow(rows, cat, name)
	if idx < 0 {
		row := []string{string(cat), name, EncodeCell(Cell{UserID: userID, Count: 1})}
		if err := l.store.AppendRow(ctx, store.TableInventory, row); err != nil {
			return fmt.Errorf("failed to create inventory row for %s/%s: %w", cat, name, err)
		}
		return nil
	}

	row := append([]string(nil), rows[idx]...)
	if ci := findUserCell(row, userID); ci >= 0 {
		cell, ok := DecodeCell(row[ci])
		if !ok {
			// Unparsable count for this user: reset to 1 rather than
			// guessing, matching the historical behavior.
			cell = Cell{UserID: userID, Count: 0}
		}
		cell.Count++
		row[ci] = EncodeCell(cell)
	} else {
		row = append(row, EncodeCell(Cell{UserID: userID, Count: 1}))
	}

	if err := l.store.UpdateRow(ctx, store.TableInventory, idx, row); err != nil {
		return fmt.Errorf("failed to update inventory row for %s/%s: %w", cat, name, err)
	}
	return nil
}

// RemoveCard takes one copy of a card from the user. Returns false when the
// card row or the user's cell is absent, or when the addressed cell has a
// non-numeric count. A count of 1 clears the cell; the row itself stays.
func (l *Ledger) RemoveCard(ctx context.Context, userID string, cat model.Category, name string) (bool, error) {
	rows, err := l.store.ListRows(ctx, store.TableInventory)
	if err != nil {
		return false, fmt.Errorf("failed to read inventory: %w", err)
	}

	idx := findCardRow(rows, cat, name)
	if idx < 0 {
		return false, nil
	}

	row := append([]string(nil), rows[idx]...)
	ci := findUserCell(row, userID)
	if ci < 0 {
		return false, nil
	}
	cell, ok := DecodeCell(row[ci])
	if !ok {
		return false, nil
	}

	if cell.Count > 1 {
		cell.Count--
		row[ci] = EncodeCell(cell)
	} else {
		row[ci] = ""
	}

	if err := l.store.UpdateRow(ctx, store.TableInventory, idx, row); err != nil {
		return false, fmt.Errorf("failed to update inventory row for %s/%s: %w", cat, name, err)
	}
	return true, nil
}

// Inventory returns the user's holdings with count > 0, annotated with a
// display image when the catalog still has the backing file. Malformed
// cells are skipped.
func (l *Ledger) Inventory(ctx context.Context, userID string) ([]model.OwnedCard, error) {
	rows, err := l.store.ListRows(ctx, store.TableInventory)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	var owned []model.OwnedCard
	for _, row := range rows {
		if len(row) < rowFixedCells {
			continue
		}
		cat, name := model.Category(row[0]), row[1]
		ci := findUserCell(row, userID)
		if ci < 0 {
			continue
		}
		cell, ok := DecodeCell(row[ci])
		if !ok || cell.Count <= 0 {
			continue
		}
		card := model.OwnedCard{Category: cat, Name: name, Count: cell.Count}
		if l.images != nil {
			card.ImageID = l.images.ImageID(cat, name)
		}
		owned = append(owned, card)
	}
	return owned, nil
}

// Ranking sums every user's holdings across all rows and sorts descending
// by total. Ties keep row-encounter order (stable sort).
func (l *Ledger) Ranking(ctx context.Context) ([]model.RankingEntry, error) {
	rows, err := l.store.ListRows(ctx, store.TableInventory)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	totals := make(map[string]int)
	var order []string
	for _, row := range rows {
		for i := rowFixedCells; i < len(row); i++ {
			cell, ok := DecodeCell(row[i])
			if !ok {
				continue
			}
			if _, seen := totals[cell.UserID]; !seen {
				order = append(order, cell.UserID)
			}
			totals[cell.UserID] += cell.Count
		}
	}

	ranking := make([]model.RankingEntry, 0, len(order))
	for _, id := range order {
		ranking = append(ranking, model.RankingEntry{UserID: id, Total: totals[id]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Total > ranking[j].Total
	})
	return ranking, nil
}

// findCardRow locates the row for a (category, name) pair, or -1.
func findCardRow(rows [][]string, cat model.Category, name string) int {
	for i, row := range rows {
		if len(row) >= rowFixedCells && row[0] == string(cat) && row[1] == name {
			return i
		}
	}
	return -1
}
