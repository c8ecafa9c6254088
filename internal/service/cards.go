package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"citadelle-cards-api/internal/catalog"
	"citadelle-cards-api/internal/cooldown"
	"citadelle-cards-api/internal/draw"
	"citadelle-cards-api/internal/exchange"
	"citadelle-cards-api/internal/ledger"
	"citadelle-cards-api/internal/model"
)

// DailyDrawCount is how many cards a daily draw grants.
const DailyDrawCount = 3

// SacrificeRewardCount is how many fresh cards a sacrifice grants.
const SacrificeRewardCount = 3

// Precondition errors surfaced to the user as explanatory messages.
var (
	ErrCooldownActive = errors.New("already performed today, come back tomorrow")
	ErrCardNotOwned   = errors.New("you do not own that card")
	ErrOwnOffer       = errors.New("you cannot take your own offer")
)

// NotEnoughCardsError reports a sacrifice attempt with too few eligible cards.
type NotEnoughCardsError struct {
	Have int
	Need int
}

func (e *NotEnoughCardsError) Error() string {
	return fmt.Sprintf("sacrifice needs at least %d eligible cards, you have %d", e.Need, e.Have)
}

// CardService orchestrates draws, sacrifices, trading and display reads.
type CardService struct {
	catalog   *catalog.Catalog
	engine    *draw.Engine
	selector  *draw.Selector
	ledger    *ledger.Ledger
	dailyDraw *cooldown.Tracker
	sacrifice *cooldown.Tracker
	board     *exchange.Board
	names     *Directory
}

// NewCardService wires the domain modules together.
func NewCardService(
	cat *catalog.Catalog,
	engine *draw.Engine,
	selector *draw.Selector,
	led *ledger.Ledger,
	dailyDraw *cooldown.Tracker,
	sacrifice *cooldown.Tracker,
	board *exchange.Board,
	names *Directory,
) *CardService {
	return &CardService{
		catalog:   cat,
		engine:    engine,
		selector:  selector,
		ledger:    led,
		dailyDraw: dailyDraw,
		sacrifice: sacrifice,
		board:     board,
		names:     names,
	}
}

// PerformDailyDraw draws up to DailyDrawCount cards for the user, records
// them in the ledger and consumes the user's daily draw. The result may be
// shorter than DailyDrawCount when categories are empty.
func (s *CardService) PerformDailyDraw(ctx context.Context, userID string) ([]model.DrawnCard, error) {
	ok, err := s.dailyDraw.CanAct(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCooldownActive
	}

	picks := s.engine.Draw(DailyDrawCount)
	drawn := make([]model.DrawnCard, 0, len(picks))
	for _, p := range picks {
		if err := s.ledger.AddCard(ctx, userID, p.Category, p.Name); err != nil {
			return nil, err
		}
		drawn = append(drawn, model.DrawnCard{Category: p.Category, Name: p.Name, ImageID: p.FileID})
	}

	if err := s.dailyDraw.RecordAction(ctx, userID); err != nil {
		return nil, err
	}
	return drawn, nil
}

// SacrificePreview returns today's fixed sacrifice candidates for the user.
// Repeated calls on the same calendar day return the same cards.
func (s *CardService) SacrificePreview(ctx context.Context, userID string) ([]model.DrawnCard, error) {
	ok, err := s.sacrifice.CanAct(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCooldownActive
	}

	picks, err := s.selector.SelectDaily(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(picks) < draw.SacrificeCount {
		return nil, &NotEnoughCardsError{Have: len(picks), Need: draw.SacrificeCount}
	}

	cards := make([]model.DrawnCard, 0, len(picks))
	for _, p := range picks {
		cards = append(cards, model.DrawnCard{
			Category: p.Category,
			Name:     p.Name,
			ImageID:  s.catalog.ImageID(p.Category, p.Name),
		})
	}
	return cards, nil
}

// PerformSacrifice removes today's five selected cards and grants
// SacrificeRewardCount fresh draws, as one staged operation: if any step
// fails, the steps already applied are undone before the error is
// reported, so the user is never left short of cards without replacements.
func (s *CardService) PerformSacrifice(ctx context.Context, userID string) ([]model.DrawnCard, error) {
	ok, err := s.sacrifice.CanAct(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCooldownActive
	}

	picks, err := s.selector.SelectDaily(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(picks) < draw.SacrificeCount {
		return nil, &NotEnoughCardsError{Have: len(picks), Need: draw.SacrificeCount}
	}

	staged := newStagedMutation(s.ledger)
	for _, p := range picks {
		if err := staged.removeCard(ctx, userID, p.Category, p.Name); err != nil {
			staged.rollback(ctx)
			return nil, fmt.Errorf("sacrifice aborted: %w", err)
		}
	}

	rewards := s.engine.Draw(SacrificeRewardCount)
	drawn := make([]model.DrawnCard, 0, len(rewards))
	for _, p := range rewards {
		if err := staged.addCard(ctx, userID, p.Category, p.Name); err != nil {
			staged.rollback(ctx)
			return nil, fmt.Errorf("sacrifice aborted: %w", err)
		}
		drawn = append(drawn, model.DrawnCard{Category: p.Category, Name: p.Name, ImageID: p.FileID})
	}

	if err := s.sacrifice.RecordAction(ctx, userID); err != nil {
		return nil, err
	}
	return drawn, nil
}

// DepositOffer moves a card from the user's inventory onto the exchange
// board. The card is restored if the board append fails.
func (s *CardService) DepositOffer(ctx context.Context, userID string, cat model.Category, name, comment string) (model.Offer, error) {
	staged := newStagedMutation(s.ledger)
	if err := staged.removeCard(ctx, userID, cat, name); err != nil {
		return model.Offer{}, err
	}

	offer, err := s.board.Deposit(ctx, userID, cat, name, comment)
	if err != nil {
		staged.rollback(ctx)
		return model.Offer{}, err
	}
	offer.OwnerName = s.names.Get(userID)
	offer.ImageID = s.catalog.ImageID(cat, name)
	return offer, nil
}

// TakeOffer trades one of the taker's cards for a board offer: the taker's
// card goes to the offer's owner, the board card goes to the taker and the
// offer leaves the board. Staged with compensating rollback.
func (s *CardService) TakeOffer(ctx context.Context, userID string, offerID int64, offeredCat model.Category, offeredName string) (model.DrawnCard, error) {
	offer, err := s.board.Get(ctx, offerID)
	if err != nil {
		return model.DrawnCard{}, err
	}
	if offer.OwnerID == userID {
		return model.DrawnCard{}, ErrOwnOffer
	}

	staged := newStagedMutation(s.ledger)
	if err := staged.removeCard(ctx, userID, offeredCat, offeredName); err != nil {
		return model.DrawnCard{}, err
	}
	if err := staged.addCard(ctx, userID, offer.Category, offer.Name); err != nil {
		staged.rollback(ctx)
		return model.DrawnCard{}, fmt.Errorf("trade aborted: %w", err)
	}
	if err := staged.addCard(ctx, offer.OwnerID, offeredCat, offeredName); err != nil {
		staged.rollback(ctx)
		return model.DrawnCard{}, fmt.Errorf("trade aborted: %w", err)
	}
	if err := s.board.Remove(ctx, offerID); err != nil {
		staged.rollback(ctx)
		return model.DrawnCard{}, fmt.Errorf("trade aborted: %w", err)
	}

	return model.DrawnCard{
		Category: offer.Category,
		Name:     offer.Name,
		ImageID:  s.catalog.ImageID(offer.Category, offer.Name),
	}, nil
}

// Inventory returns the user's holdings.
func (s *CardService) Inventory(ctx context.Context, userID string) ([]model.OwnedCard, error) {
	return s.ledger.Inventory(ctx, userID)
}

// Ranking returns all collectors ordered by total cards, annotated with
// known display names.
func (s *CardService) Ranking(ctx context.Context) ([]model.RankingEntry, error) {
	ranking, err := s.ledger.Ranking(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ranking {
		ranking[i].DisplayName = s.names.Get(ranking[i].UserID)
	}
	return ranking, nil
}

// ExchangeBoard returns all current offers, annotated for display.
func (s *CardService) ExchangeBoard(ctx context.Context) ([]model.Offer, error) {
	offers, err := s.board.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		offers[i].OwnerName = s.names.Get(offers[i].OwnerID)
		offers[i].ImageID = s.catalog.ImageID(offers[i].Category, offers[i].Name)
	}
	return offers, nil
}

// stagedMutation applies ledger mutations while keeping the inverse of
// each applied step, so a failed multi-card operation can be compensated.
// Rollback is itself best-effort: an inverse that fails is logged, since
// there is nothing further to fall back to against a non-transactional
// store.
type stagedMutation struct {
	ledger *ledger.Ledger
	undo   []func(ctx context.Context) error
}

func newStagedMutation(l *ledger.Ledger) *stagedMutation {
	return &stagedMutation{ledger: l}
}

func (m *stagedMutation) removeCard(ctx context.Context, userID string, cat model.Category, name string) error {
	ok, err := m.ledger.RemoveCard(ctx, userID, cat, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCardNotOwned
	}
	m.undo = append(m.undo, func(ctx context.Context) error {
		return m.ledger.AddCard(ctx, userID, cat, name)
	})
	return nil
}

func (m *stagedMutation) addCard(ctx context.Context, userID string, cat model.Category, name string) error {
	if err := m.ledger.AddCard(ctx, userID, cat, name); err != nil {
		return err
	}
	m.undo = append(m.undo, func(ctx context.Context) error {
		_, err := m.ledger.RemoveCard(ctx, userID, cat, name)
		return err
	})
	return nil
}

func (m *stagedMutation) rollback(ctx context.Context) {
	for i := len(m.undo) - 1; i >= 0; i-- {
		if err := m.undo[i](ctx); err != nil {
			log.Printf("[CardService] Rollback step failed: %v", err)
		}
	}
	m.undo = nil
}
