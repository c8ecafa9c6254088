// Package exchange manages the shared card exchange board. Offers live in
// the exchange table as [offerID, ownerID, category, name, timestamp,
// comment]. Offer IDs are synthetic monotonically increasing integers
// stored in the row, so they stay valid when earlier rows are deleted;
// row position is only an internal deletion coordinate.
package exchange

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/store"
)

// ErrOfferNotFound indicates no offer carries the requested ID.
const ErrOfferNotFound = boardError("offer not found")

type boardError string

func (e boardError) Error() string { return string(e) }

// Board reads and mutates the exchange table.
type Board struct {
	store store.TabularStore
	loc   *time.Location
	now   func() time.Time
}

// New creates an exchange board; timestamps are written in the given
// fixed timezone.
func New(st store.TabularStore, loc *time.Location) *Board {
	return &Board{store: st, loc: loc, now: time.Now}
}

// SetNow overrides the clock. Test helper.
func (b *Board) SetNow(now func() time.Time) { b.now = now }

// List returns all current offers in board order.
func (b *Board) List(ctx context.Context) ([]model.Offer, error) {
	rows, err := b.store.ListRows(ctx, store.TableExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to read exchange board: %w", err)
	}

	offers := make([]model.Offer, 0, len(rows))
	for _, row := range rows {
		offer, ok := decodeOffer(row)
		if !ok {
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// Deposit appends a new offer and returns it with its assigned ID.
func (b *Board) Deposit(ctx context.Context, ownerID string, cat model.Category, name, comment string) (model.Offer, error) {
	rows, err := b.store.ListRows(ctx, store.TableExchange)
	if err != nil {
		return model.Offer{}, fmt.Errorf("failed to read exchange board: %w", err)
	}

	offer := model.Offer{
		ID:        nextOfferID(rows),
		OwnerID:   ownerID,
		Category:  cat,
		Name:      name,
		CreatedAt: b.now().In(b.loc),
		Comment:   comment,
	}
	if err := b.store.AppendRow(ctx, store.TableExchange, encodeOffer(offer)); err != nil {
		return model.Offer{}, fmt.Errorf("failed to deposit offer: %w", err)
	}
	return offer, nil
}

// Get resolves an offer by ID.
func (b *Board) Get(ctx context.Context, offerID int64) (model.Offer, error) {
	rows, err := b.store.ListRows(ctx, store.TableExchange)
	if err != nil {
		return model.Offer{}, fmt.Errorf("failed to read exchange board: %w", err)
	}
	for _, row := range rows {
		if offer, ok := decodeOffer(row); ok && offer.ID == offerID {
			return offer, nil
		}
	}
	return model.Offer{}, ErrOfferNotFound
}

// Remove deletes the offer with the given ID, resolving its current row
// position at call time.
func (b *Board) Remove(ctx context.Context, offerID int64) error {
	rows, err := b.store.ListRows(ctx, store.TableExchange)
	if err != nil {
		return fmt.Errorf("failed to read exchange board: %w", err)
	}
	for i, row := range rows {
		if offer, ok := decodeOffer(row); ok && offer.ID == offerID {
			if err := b.store.DeleteRow(ctx, store.TableExchange, i); err != nil {
				return fmt.Errorf("failed to remove offer %d: %w", offerID, err)
			}
			return nil
		}
	}
	return ErrOfferNotFound
}

// nextOfferID is one past the highest ID on the board. IDs restart from 1
// on an empty board, which is fine: an offer ID only needs to be unique
// among live offers.
func nextOfferID(rows [][]string) int64 {
	var max int64
	for _, row := range rows {
		if offer, ok := decodeOffer(row); ok && offer.ID > max {
			max = offer.ID
		}
	}
	return max + 1
}

func encodeOffer(o model.Offer) []string {
	return []string{
		strconv.FormatInt(o.ID, 10),
		o.OwnerID,
		string(o.Category),
		o.Name,
		o.CreatedAt.Format(time.RFC3339),
		o.Comment,
	}
}

func decodeOffer(row []string) (model.Offer, bool) {
	if len(row) < 5 {
		return model.Offer{}, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		log.Printf("[ExchangeBoard] Skipping malformed offer row: %v", row)
		return model.Offer{}, false
	}
	ts, err := time.Parse(time.RFC3339, row[4])
	if err != nil {
		ts = time.Time{}
	}
	offer := model.Offer{
		ID:        id,
		OwnerID:   row[1],
		Category:  model.Category(row[2]),
		Name:      row[3],
		CreatedAt: ts,
	}
	if len(row) > 5 {
		offer.Comment = row[5]
	}
	return offer, true
}
