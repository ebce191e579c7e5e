// Package httpx is the owning-service HTTP surface around the checkout
// core: basket mutation, payment intent reconciliation, order creation,
// and the gateway webhook that delivers payment outcomes.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-chi/chi/v5"

	"github.com/monsterstore/checkout/internal/basket"
	basketdomain "github.com/monsterstore/checkout/internal/basket/domain"
	basketrepo "github.com/monsterstore/checkout/internal/basket/repository"
	"github.com/monsterstore/checkout/internal/catalog"
	"github.com/monsterstore/checkout/internal/checkout"
	orderdomain "github.com/monsterstore/checkout/internal/order/domain"
	orderrepo "github.com/monsterstore/checkout/internal/order/repository"
	"github.com/monsterstore/checkout/internal/payment"
	"github.com/monsterstore/checkout/internal/pricing"
)

// Handler exposes basket and checkout operations over HTTP.
type Handler struct {
	baskets  *basket.Service
	checkout *checkout.Service
}

func NewHandler(baskets *basket.Service, co *checkout.Service) *Handler {
	return &Handler{baskets: baskets, checkout: co}
}

// CreateBasket returns the buyer's active basket, creating one on first use.
func (h *Handler) CreateBasket(w http.ResponseWriter, r *http.Request) {
	var req CreateBasketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.BuyerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "buyer_id is required")
		return
	}

	b, err := h.baskets.GetOrCreate(r.Context(), req.BuyerID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBasketToResponse(b))
}

// GetBasket loads a basket by id.
func (h *Handler) GetBasket(w http.ResponseWriter, r *http.Request) {
	b, err := h.baskets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBasketToResponse(b))
}

// AddItem snapshots the product into the basket.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_item", "product_id and a positive quantity are required")
		return
	}

	b, err := h.baskets.AddItem(r.Context(), chi.URLParam(r, "id"), req.ProductID, req.Quantity)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBasketToResponse(b))
}

// RemoveItem reduces a line item's quantity (default 1).
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	quantity := 1
	if q := r.URL.Query().Get("quantity"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
			return
		}
		quantity = parsed
	}

	b, err := h.baskets.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productID"), quantity)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBasketToResponse(b))
}

// UpdateQuantity replaces a line item's quantity.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	b, err := h.baskets.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBasketToResponse(b))
}

// ReconcilePaymentIntent synchronizes the basket's remote payment intent
// with its current total. The core performs no retries of its own, so
// transient gateway and store failures are retried here with backoff.
func (h *Handler) ReconcilePaymentIntent(w http.ResponseWriter, r *http.Request) {
	basketID := chi.URLParam(r, "id")

	var result *checkout.ReconcileResult
	err := retry.Do(
		func() error {
			var err error
			result, err = h.checkout.Reconcile(r.Context(), basketID)
			return err
		},
		retry.RetryIf(isRetryable),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(100*time.Millisecond),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapReconcileToResponse(result))
}

// MaterializeOrder converts a paid basket into an order.
func (h *Handler) MaterializeOrder(w http.ResponseWriter, r *http.Request) {
	var req MaterializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.BuyerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "buyer_id is required")
		return
	}

	o, err := h.checkout.Materialize(r.Context(), chi.URLParam(r, "id"), req.BuyerID, req.ShippingAddress.toDomain())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(o))
}

// PaymentWebhook receives the gateway's out-of-band payment confirmation
// and applies the outcome to the order.
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req PaymentWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "order_id is required")
		return
	}

	if err := h.checkout.ApplyPaymentOutcome(r.Context(), req.OrderID, req.Succeeded); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isRetryable limits handler-level retries to failures the core documents
// as caller-retryable: transient gateway errors and store failures.
func isRetryable(err error) bool {
	return payment.IsTransient(err) || checkout.IsStorageError(err)
}

// writeDomainError maps core errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ge *payment.GatewayError

	switch {
	case errors.Is(err, pricing.ErrEmptyBasket):
		writeError(w, http.StatusBadRequest, "empty_basket", err.Error())
	case errors.Is(err, basketdomain.ErrInvalidQuantity),
		errors.Is(err, basketdomain.ErrItemNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, orderdomain.ErrAddressIncomplete):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, basketrepo.ErrNotFound), errors.Is(err, orderrepo.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, checkout.ErrBasketInactive),
		errors.Is(err, checkout.ErrNoPaymentIntent),
		errors.Is(err, orderdomain.ErrInvalidState),
		errors.Is(err, basketrepo.ErrVersionConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &ge):
		if ge.Transient {
			writeError(w, http.StatusBadGateway, "payment_gateway_unavailable", ge.Message)
		} else {
			writeError(w, http.StatusPaymentRequired, ge.Code, ge.Message)
		}
	case checkout.IsStorageError(err):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		slog.ErrorContext(r.Context(), "unhandled checkout error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
