package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cowtrade/cowtrade/src/order/domain"
)

// APIClient talks to the swap server's /create-order endpoint, covering both
// legs of the flow: unsigned quote requests and signed submissions.
type APIClient struct {
	baseURL string
	wallet  string
	http    *http.Client
}

func NewAPIClient(baseURL, wallet string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		wallet:  wallet,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type orderDataWire struct {
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

type createOrderWire struct {
	FromToken string         `json:"fromToken"`
	ToToken   string         `json:"toToken"`
	Amount    string         `json:"amount"`
	ChainID   int64          `json:"chainId"`
	Signature string         `json:"signature,omitempty"`
	OrderData *orderDataWire `json:"orderData,omitempty"`
}

type createOrderReply struct {
	Success        bool            `json:"success"`
	NeedsSignature bool            `json:"needsSignature"`
	OrderData      *orderDataWire  `json:"orderData"`
	Message        string          `json:"message"`
	EstimatedOut   decimal.Decimal `json:"estimatedOut"`
	Route          string          `json:"route"`
	OrderID        string          `json:"orderId"`
	Error          string          `json:"error"`
}

// CreateOrder asks the server to quote the intent and returns the canonical
// payload to sign.
func (c *APIClient) CreateOrder(ctx context.Context, intent domain.SwapIntent) (*domain.Quote, error) {
	reply, status, err := c.post(ctx, createOrderWire{
		FromToken: intent.SellToken,
		ToToken:   intent.BuyToken,
		Amount:    intent.AmountIn.String(),
		ChainID:   intent.ChainID,
	})
	if err != nil {
		return nil, domain.Errf(domain.ErrUpstreamUnavailable, "quote request: %v", err)
	}
	if status != http.StatusOK {
		kind := domain.ErrUpstreamUnavailable
		if status == http.StatusBadRequest {
			kind = domain.ErrInvalidRequest
		}
		return nil, domain.Errf(kind, "%s", replyError(reply, status))
	}
	if reply.OrderData == nil {
		return nil, domain.Errf(domain.ErrUpstreamUnavailable, "quote response missing order data")
	}
	return &domain.Quote{
		Payload:   toPayload(reply.OrderData),
		AmountOut: reply.EstimatedOut,
		Route:     reply.Route,
	}, nil
}

// SubmitOrder submits a signed order and returns the protocol order id. The
// payload is sent exactly as it was signed.
func (c *APIClient) SubmitOrder(ctx context.Context, signed *domain.SignedOrder) (string, error) {
	wire := fromPayload(signed.Payload)
	reply, status, err := c.post(ctx, createOrderWire{
		Signature: signed.Signature,
		OrderData: &wire,
	})
	if err != nil {
		return "", domain.Errf(domain.ErrUpstreamUnavailable, "submit request: %v", err)
	}
	if status != http.StatusOK {
		kind := domain.ErrUpstreamUnavailable
		if status == http.StatusBadRequest {
			kind = domain.ErrInvalidRequest
		}
		return "", domain.Errf(kind, "%s", replyError(reply, status))
	}
	if !reply.Success {
		return "", domain.Errf(domain.ErrSubmissionRejected, "%s", replyError(reply, status))
	}
	return reply.OrderID, nil
}

func (c *APIClient) post(ctx context.Context, body createOrderWire) (*createOrderReply, int, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create-order", bytes.NewReader(buf))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-wallet-address", c.wallet)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	var reply createOrderReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return &reply, resp.StatusCode, nil
}

func replyError(reply *createOrderReply, status int) string {
	if reply != nil && reply.Error != "" {
		return reply.Error
	}
	return fmt.Sprintf("server returned status %d", status)
}

func toPayload(w *orderDataWire) domain.OrderPayload {
	return domain.OrderPayload{
		SellToken:         w.SellToken,
		BuyToken:          w.BuyToken,
		Receiver:          w.Receiver,
		SellAmount:        w.SellAmount,
		BuyAmount:         w.BuyAmount,
		ValidTo:           w.ValidTo,
		AppData:           w.AppData,
		FeeAmount:         w.FeeAmount,
		Kind:              w.Kind,
		PartiallyFillable: w.PartiallyFillable,
		SellTokenBalance:  w.SellTokenBalance,
		BuyTokenBalance:   w.BuyTokenBalance,
		ChainID:           w.ChainID,
	}
}

func fromPayload(p domain.OrderPayload) orderDataWire {
	return orderDataWire{
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
