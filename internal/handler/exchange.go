package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"citadelle-cards-api/internal/middleware"
	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/service"
	"citadelle-cards-api/pkg/apierror"
	"citadelle-cards-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ExchangeHandler handles exchange board HTTP requests.
type ExchangeHandler struct {
	cards *service.CardService
}

// NewExchangeHandler creates a new exchange handler.
func NewExchangeHandler(cards *service.CardService) *ExchangeHandler {
	return &ExchangeHandler{cards: cards}
}

// Board handles GET /api/v1/exchange
func (h *ExchangeHandler) Board(w http.ResponseWriter, r *http.Request) {
	offers, err := h.cards.ExchangeBoard(r.Context())
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.OK(w, map[string]interface{}{
		"offers": offers,
	})
}

// DepositRequest is the body for depositing a card on the board.
type DepositRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Comment  string `json:"comment,omitempty"`
}

// Deposit handles POST /api/v1/exchange/deposit
func (h *ExchangeHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Category == "" || req.Name == "" {
		response.Error(w, apierror.BadRequest("please select a card to deposit"))
		return
	}

	offer, err := h.cards.DepositOffer(r.Context(), session.UserID, model.Category(req.Category), req.Name, req.Comment)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.Created(w, offer)
}

// TakeRequest is the body for taking an offer: the card given in return.
type TakeRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Take handles POST /api/v1/exchange/take/{offer_id}
func (h *ExchangeHandler) Take(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	offerID, err := strconv.ParseInt(chi.URLParam(r, "offer_id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid offer id"))
		return
	}

	var req TakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Category == "" || req.Name == "" {
		response.Error(w, apierror.BadRequest("please select a card to trade"))
		return
	}

	card, err := h.cards.TakeOffer(r.Context(), session.UserID, offerID, model.Category(req.Category), req.Name)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.OK(w, map[string]interface{}{
		"received": card,
	})
}
