// Package ledger stores per-user card ownership in the tabular store.
// Each inventory row is [category, name, cell...] where every cell packs
// one user's holding as "userID:count".
package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is one decoded "userID:count" holding.
type Cell struct {
	UserID string
	Count  int
}

// EncodeCell packs a holding into its stored form.
func EncodeCell(c Cell) string {
	return fmt.Sprintf("%s:%d", c.UserID, c.Count)
}

// DecodeCell parses a stored cell. ok is false for empty cells, cells
// without a separator, and non-numeric counts.
func DecodeCell(raw string) (Cell, bool) {
	if raw == "" {
		return Cell{}, false
	}
	id, countStr, found := strings.Cut(raw, ":")
	if !found {
		return Cell{}, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil {
		return Cell{}, false
	}
	return Cell{UserID: strings.TrimSpace(id), Count: count}, true
}

// cellOwner reports whether a raw cell belongs to the user, without
// requiring the count to parse. RemoveCard needs the distinction: a
// malformed count for the addressed user is a failure, not a skip.
func cellOwner(raw, userID string) bool {
	id, _, found := strings.Cut(raw, ":")
	return found && strings.TrimSpace(id) == userID
}

// findUserCell locates the user's cell among a row's holding cells
// (indexes relative to the full row, so starting at 2). Returns -1 when
// the user has no cell.
func findUserCell(row []string, userID string) int {
	for i := rowFixedCells; i < len(row); i++ {
		if cellOwner(row[i], userID) {
			return i
		}
	}
	return -1
}

// rowFixedCells is the number of leading non-holding cells in an
// inventory row (category and name).
const rowFixedCells = 2
