// Package http provides HTTP handlers for the swap order flow
//
// Schemes: http
// Host: localhost:8080
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cowtrade/cowtrade/src/order/domain"
)

// OrderDataDTO mirrors the canonical order payload on the wire. The client
// echoes it back byte-for-byte when submitting a signature; it is never
// rebuilt between the two calls.
type OrderDataDTO struct {
	SellToken         string `json:"sellToken"`
	BuyToken          string `json:"buyToken"`
	Receiver          string `json:"receiver"`
	SellAmount        string `json:"sellAmount"`
	BuyAmount         string `json:"buyAmount"`
	ValidTo           uint32 `json:"validTo"`
	AppData           string `json:"appData"`
	FeeAmount         string `json:"feeAmount"`
	Kind              string `json:"kind"`
	PartiallyFillable bool   `json:"partiallyFillable"`
	SellTokenBalance  string `json:"sellTokenBalance"`
	BuyTokenBalance   string `json:"buyTokenBalance"`
	ChainID           int64  `json:"chainId"`
}

func (d *OrderDataDTO) ToDomain() domain.OrderPayload {
	return domain.OrderPayload{
		SellToken:         d.SellToken,
		BuyToken:          d.BuyToken,
		Receiver:          d.Receiver,
		SellAmount:        d.SellAmount,
		BuyAmount:         d.BuyAmount,
		ValidTo:           d.ValidTo,
		AppData:           d.AppData,
		FeeAmount:         d.FeeAmount,
		Kind:              d.Kind,
		PartiallyFillable: d.PartiallyFillable,
		SellTokenBalance:  d.SellTokenBalance,
		BuyTokenBalance:   d.BuyTokenBalance,
		ChainID:           d.ChainID,
	}
}

func fromOrderPayload(p domain.OrderPayload) OrderDataDTO {
	return OrderDataDTO{
		SellToken:         p.SellToken,
		BuyToken:          p.BuyToken,
		Receiver:          p.Receiver,
		SellAmount:        p.SellAmount,
		BuyAmount:         p.BuyAmount,
		ValidTo:           p.ValidTo,
		AppData:           p.AppData,
		FeeAmount:         p.FeeAmount,
		Kind:              p.Kind,
		PartiallyFillable: p.PartiallyFillable,
		SellTokenBalance:  p.SellTokenBalance,
		BuyTokenBalance:   p.BuyTokenBalance,
		ChainID:           p.ChainID,
	}
}

// CreateOrderRequestBody is the payload for POST /create-order. With no
// signature it is a quote request; with a signature it is a submission and
// must carry the orderData echoed from the quote response.
// swagger:model CreateOrderRequestBody
type CreateOrderRequestBody struct {
	FromToken string        `json:"fromToken" example:"USDC"`
	ToToken   string        `json:"toToken" example:"DAI"`
	Amount    string        `json:"amount" example:"100.5"`
	ChainID   int64         `json:"chainId" example:"1"`
	Signature string        `json:"signature,omitempty"`
	OrderData *OrderDataDTO `json:"orderData,omitempty"`
}

// CreateOrderResponse is the response for POST /create-order.
// swagger:model CreateOrderResponse
type CreateOrderResponse struct {
	Success        bool            `json:"success"`
	NeedsSignature bool            `json:"needsSignature,omitempty"`
	OrderData      *OrderDataDTO   `json:"orderData,omitempty"`
	Message        string          `json:"message,omitempty"`
	EstimatedOut   decimal.Decimal `json:"estimatedOut,omitempty"`
	Route          string          `json:"route,omitempty"`
	OrderID        string          `json:"orderId,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// OrderRecordResponse is a persisted order returned by the read endpoints.
// swagger:model OrderRecordResponse
type OrderRecordResponse struct {
	UID        string    `json:"uid"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Wallet     string    `json:"wallet"`
	ChainID    int64     `json:"chain_id"`
	SellToken  string    `json:"sell_token"`
	BuyToken   string    `json:"buy_token"`
	SellAmount string    `json:"sell_amount"`
	BuyAmount  string    `json:"buy_amount"`
	ValidTo    int64     `json:"valid_to"`
	OrderID    string    `json:"order_id,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

func fromOrderRecord(rec *domain.OrderRecord) OrderRecordResponse {
	return OrderRecordResponse{
		UID:        rec.UID.String(),
		Status:     string(rec.Status),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		Wallet:     rec.Wallet,
		ChainID:    rec.ChainID,
		SellToken:  rec.SellToken,
		BuyToken:   rec.BuyToken,
		SellAmount: rec.SellAmount,
		BuyAmount:  rec.BuyAmount,
		ValidTo:    rec.ValidTo,
		OrderID:    rec.OrderID,
		Reason:     rec.Reason,
	}
}
