package httpx

import (
	basketdomain "github.com/monsterstore/checkout/internal/basket/domain"
	"github.com/monsterstore/checkout/internal/checkout"
	orderdomain "github.com/monsterstore/checkout/internal/order/domain"
)

type CreateBasketRequest struct {
	BuyerID string `json:"buyer_id"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type LineItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

type BasketResponse struct {
	ID              string             `json:"id"`
	BuyerID         string             `json:"buyer_id"`
	Items           []LineItemResponse `json:"items"`
	PaymentIntentID string             `json:"payment_intent_id,omitempty"`
	ClientSecret    string             `json:"client_secret,omitempty"`
}

type ReconcileResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Amount          int64  `json:"amount"`
}

type ShippingAddressDTO struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type MaterializeRequest struct {
	BuyerID         string             `json:"buyer_id"`
	ShippingAddress ShippingAddressDTO `json:"shipping_address"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	BuyerID         string              `json:"buyer_id"`
	ShippingAddress ShippingAddressDTO  `json:"shipping_address"`
	PaymentIntentID string              `json:"payment_intent_id"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        int64               `json:"subtotal"`
	DeliveryFees    int64               `json:"delivery_fees"`
	Total           int64               `json:"total"`
	Status          string              `json:"status"`
	PlacedAt        string              `json:"placed_at"`
}

type PaymentWebhookRequest struct {
	OrderID   string `json:"order_id"`
	Succeeded bool   `json:"succeeded"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapBasketToResponse(b *basketdomain.Basket) BasketResponse {
	items := make([]LineItemResponse, len(b.Items))
	for i, it := range b.Items {
		items[i] = LineItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ImageURL:    it.ImageURL,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		}
	}
	return BasketResponse{
		ID:              b.ID,
		BuyerID:         b.BuyerID,
		Items:           items,
		PaymentIntentID: b.PaymentIntentID,
		ClientSecret:    b.ClientSecret,
	}
}

func mapReconcileToResponse(r *checkout.ReconcileResult) ReconcileResponse {
	return ReconcileResponse{
		PaymentIntentID: r.PaymentIntentID,
		ClientSecret:    r.ClientSecret,
		Amount:          r.Amount,
	}
}

func mapOrderToResponse(o *orderdomain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			ImageURL:  it.ImageURL,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	return OrderResponse{
		ID:      o.ID,
		BuyerID: o.BuyerID,
		ShippingAddress: ShippingAddressDTO{
			FullName:   o.Address.FullName,
			Line1:      o.Address.Line1,
			Line2:      o.Address.Line2,
			City:       o.Address.City,
			State:      o.Address.State,
			PostalCode: o.Address.PostalCode,
			Country:    o.Address.Country,
		},
		PaymentIntentID: o.PaymentIntentID,
		Items:           items,
		Subtotal:        o.Subtotal,
		DeliveryFees:    o.DeliveryFees,
		Total:           o.GetTotal(),
		Status:          o.Status.String(),
		PlacedAt:        o.PlacedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (d ShippingAddressDTO) toDomain() orderdomain.ShippingAddress {
	return orderdomain.ShippingAddress{
		FullName:   d.FullName,
		Line1:      d.Line1,
		Line2:      d.Line2,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
		Country:    d.Country,
	}
}
