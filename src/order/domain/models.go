package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrorKind classifies everything that can go wrong in an order flow. Each
// kind has a different recovery path, so classification happens once, at the
// boundary where the failure is observed, and is never re-derived upstream.
type ErrorKind string

const (
	ErrInvalidRequest      ErrorKind = "INVALID_REQUEST"
	ErrUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	ErrUnsupportedChain    ErrorKind = "UNSUPPORTED_CHAIN"
	ErrInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	ErrApprovalFailed      ErrorKind = "APPROVAL_FAILED"
	ErrSignatureDeclined   ErrorKind = "SIGNATURE_DECLINED"
	ErrSubmissionRejected  ErrorKind = "SUBMISSION_REJECTED"
)

// FlowError carries a taxonomy kind plus a human-readable message. Upstream
// rejection messages pass through verbatim.
type FlowError struct {
	Kind    ErrorKind
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Errf(kind ErrorKind, format string, args ...interface{}) *FlowError {
	return &FlowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind from an error chain; unclassified errors
// report as upstream unavailability since that is the only retryable bucket.
func KindOf(err error) ErrorKind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ErrUpstreamUnavailable
}

// SwapIntent is one user trade request. It is immutable and discarded once an
// OrderPayload has been produced from it.
type SwapIntent struct {
	SellToken string
	BuyToken  string
	AmountIn  decimal.Decimal
	ChainID   int64
	Wallet    string
}

func (i SwapIntent) Validate() error {
	switch {
	case i.SellToken == "":
		return Errf(ErrInvalidRequest, "sell token is required")
	case i.BuyToken == "":
		return Errf(ErrInvalidRequest, "buy token is required")
	case i.AmountIn.Sign() <= 0:
		return Errf(ErrInvalidRequest, "amount must be positive")
	case i.ChainID == 0:
		return Errf(ErrInvalidRequest, "chain id is required")
	case i.Wallet == "":
		return Errf(ErrInvalidRequest, "wallet address is required")
	}
	return nil
}

// OrderPayload is the canonical, protocol-shaped order. It is produced once
// by the quote builder and must never be regenerated between signing and
// submission: the protocol derives the order identifier as a hash over these
// fields, so the payload that is signed and the payload that is submitted
// have to be the same bytes.
//
// ChainID rides along in the client/server contract but is not part of the
// twelve signed fields.
type OrderPayload struct {
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

// Normalize lowercases every address field, per protocol requirement.
func (p *OrderPayload) Normalize() {
	p.SellToken = strings.ToLower(p.SellToken)
	p.BuyToken = strings.ToLower(p.BuyToken)
	p.Receiver = strings.ToLower(p.Receiver)
	p.AppData = strings.ToLower(p.AppData)
}

// Expired reports whether validTo has passed.
func (p *OrderPayload) Expired(now time.Time) bool {
	return int64(p.ValidTo) < now.Unix()
}

// Quote is the quote builder's output: the canonical payload plus a
// human-readable echo for display.
type Quote struct {
	Payload   OrderPayload
	AmountOut decimal.Decimal
	Route     string
}

// SignedOrder is an OrderPayload plus the signature produced over it.
// Constructed once, submitted once.
type SignedOrder struct {
	Payload       OrderPayload
	Signature     string
	SigningScheme string
	From          string
}

// Normalize lowercases the payload addresses and the signer address.
func (s *SignedOrder) Normalize() {
	s.Payload.Normalize()
	s.From = strings.ToLower(s.From)
	s.Signature = strings.ToLower(s.Signature)
}

// OrderStatus tracks a persisted submission.
type OrderStatus string

const (
	OrderSubmitted OrderStatus = "SUBMITTED"
	OrderRejected  OrderStatus = "REJECTED"
	OrderExpired   OrderStatus = "EXPIRED"
)

// OrderRecord is the persisted trace of one submission attempt.
type OrderRecord struct {
	ID         uint
	UID        uuid.UUID
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Wallet     string
	ChainID    int64
	SellToken  string
	BuyToken   string
	SellAmount string
	BuyAmount  string
	ValidTo    int64
	OrderID    string
	Signature  string
	Reason     string
}
