package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/baskets", handler.CreateBasket)
	r.Get("/baskets/{id}", handler.GetBasket)
	r.Post("/baskets/{id}/items", handler.AddItem)
	r.Delete("/baskets/{id}/items/{productID}", handler.RemoveItem)
	r.Put("/baskets/{id}/items/{productID}", handler.UpdateQuantity)
	r.Post("/baskets/{id}/payment-intent", handler.ReconcilePaymentIntent)
	r.Post("/baskets/{id}/order", handler.MaterializeOrder)
	r.Post("/webhooks/payment", handler.PaymentWebhook)

	// One server span per request; the span context flows through
	// r.Context() so every slog call downstream carries trace_id/span_id.
	return otelhttp.NewHandler(r, "checkout.http")
}
