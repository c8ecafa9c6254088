package handler

import (
	"errors"
	"net/http"

	"citadelle-cards-api/internal/exchange"
	"citadelle-cards-api/internal/middleware"
	"citadelle-cards-api/internal/service"
	"citadelle-cards-api/pkg/apierror"
	"citadelle-cards-api/pkg/response"
)

// CardsHandler handles draw, sacrifice, inventory and ranking requests.
type CardsHandler struct {
	cards *service.CardService
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(cards *service.CardService) *CardsHandler {
	return &CardsHandler{cards: cards}
}

// Draw handles POST /api/v1/draw
func (h *CardsHandler) Draw(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	drawn, err := h.cards.PerformDailyDraw(r.Context(), session.UserID)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	response.OK(w, map[string]interface{}{
		"cards": drawn,
		"count": len(drawn),
	})
}

// Inventory handles GET /api/v1/inventory
func (h *CardsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	cards, err := h.cards.Inventory(r.Context(), session.UserID)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	total := 0
	for _, c := range cards {
		total += c.Count
	}
	response.OK(w, map[string]interface{}{
		"cards": cards,
		"total": total,
	})
}

// SacrificePreview handles GET /api/v1/sacrifice
func (h *CardsHandler) SacrificePreview(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	cards, err := h.cards.SacrificePreview(r.Context(), session.UserID)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	response.OK(w, map[string]interface{}{
		"cards": cards,
	})
}

// SacrificeConfirm handles POST /api/v1/sacrifice
func (h *CardsHandler) SacrificeConfirm(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	drawn, err := h.cards.PerformSacrifice(r.Context(), session.UserID)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	response.OK(w, map[string]interface{}{
		"cards": drawn,
		"count": len(drawn),
	})
}

// Ranking handles GET /api/v1/ranking
func (h *CardsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.cards.Ranking(r.Context())
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.OK(w, map[string]interface{}{
		"ranking": ranking,
	})
}

// mapServiceError translates service errors into API errors. Precondition
// failures carry an explanatory message; anything else degrades to a
// generic failure envelope.
func mapServiceError(err error) error {
	var notEnough *service.NotEnoughCardsError
	switch {
	case errors.Is(err, service.ErrCooldownActive):
		return apierror.Conflict(err.Error())
	case errors.As(err, &notEnough):
		return apierror.Conflict(err.Error())
	case errors.Is(err, service.ErrCardNotOwned):
		return apierror.BadRequest(err.Error())
	case errors.Is(err, service.ErrOwnOffer):
		return apierror.BadRequest(err.Error())
	case errors.Is(err, exchange.ErrOfferNotFound):
		return apierror.NotFound(err.Error())
	default:
		return err
	}
}
