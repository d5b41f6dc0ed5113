package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/cowtrade/cowtrade/src/Infrastructure/orderbook"
	"github.com/cowtrade/cowtrade/src/config"
	"github.com/cowtrade/cowtrade/src/logger"
	"github.com/cowtrade/cowtrade/src/order/domain"
	"github.com/cowtrade/cowtrade/src/protocol"
	"github.com/cowtrade/cowtrade/src/token"
)

var _ domain.OrderUsecase = (*Service)(nil)

type Service struct {
	orderRepo   domain.OrderRepository
	logger      *logger.Logger
	book        *orderbook.Client
	orderTTL    time.Duration
	slippageBps int64
	appData     string
}

func NewService(o domain.OrderRepository, logg *logger.Logger, cfg *config.Config) (*Service, error) {
	book, err := orderbook.NewClient(cfg.OrderBook.BaseURL,
		orderbook.WithLogger(logg.Zerolog()),
	)
	if err != nil {
		return nil, fmt.Errorf("order book client: %w", err)
	}
	appData := cfg.AppData
	if appData == "" {
		appData = protocol.EmptyAppData
	}
	return &Service{
		orderRepo:   o,
		logger:      logg,
		book:        book,
		orderTTL:    cfg.OrderTTL,
		slippageBps: cfg.SlippageBps,
		appData:     appData,
	}, nil
}

// BuildOrder converts a swap intent into a canonical order payload by pricing
// it against the order book's quote endpoint. The payload is complete and
// final: the submission path consumes it untouched, so nothing about it may
// be recomputed later.
func (s *Service) BuildOrder(ctx context.Context, intent domain.SwapIntent) (*domain.Quote, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	network, err := protocol.NetworkSlug(intent.ChainID)
	if err != nil {
		return nil, domain.Errf(domain.ErrUnsupportedChain, "chain %d is not supported", intent.ChainID)
	}

	sell, err := token.Resolve(intent.ChainID, intent.SellToken)
	if err != nil {
		return nil, domain.Errf(domain.ErrInvalidRequest, "sell token: %v", err)
	}
	buy, err := token.Resolve(intent.ChainID, intent.BuyToken)
	if err != nil {
		return nil, domain.Errf(domain.ErrInvalidRequest, "buy token: %v", err)
	}

	sellAmount, err := token.ToBaseUnits(intent.AmountIn, sell.Decimals)
	if err != nil {
		return nil, domain.Errf(domain.ErrInvalidRequest, "amount: %v", err)
	}

	quote, err := s.book.Quote(ctx, intent.ChainID, orderbook.QuoteRequest{
		SellToken:           sell.Address,
		BuyToken:            buy.Address,
		Receiver:            intent.Wallet,
		From:                intent.Wallet,
		SellAmountBeforeFee: sellAmount.String(),
		Kind:                protocol.OrderKindSell,
		SigningScheme:       protocol.SigningScheme,
	})
	if err != nil {
		return nil, s.classifyQuoteError(err)
	}

	buyAmount, ok := new(big.Int).SetString(quote.Quote.BuyAmount, 10)
	if !ok {
		return nil, domain.Errf(domain.ErrUpstreamUnavailable, "order book returned malformed buy amount %q", quote.Quote.BuyAmount)
	}
	minBuyAmount := applySlippage(buyAmount, s.slippageBps)

	payload := domain.OrderPayload{
		SellToken:         sell.Address,
		BuyToken:          buy.Address,
		Receiver:          intent.Wallet,
		SellAmount:        sellAmount.String(),
		BuyAmount:         minBuyAmount.String(),
		ValidTo:           uint32(time.Now().Add(s.orderTTL).Unix()),
		AppData:           s.appData,
		FeeAmount:         "0",
		Kind:              protocol.OrderKindSell,
		PartiallyFillable: false,
		SellTokenBalance:  protocol.BalanceERC20,
		BuyTokenBalance:   protocol.BalanceERC20,
		ChainID:           intent.ChainID,
	}
	payload.Normalize()

	return &domain.Quote{
		Payload:   payload,
		AmountOut: token.FromBaseUnits(minBuyAmount, buy.Decimals),
		Route:     fmt.Sprintf("CoW Protocol batch auction (%s)", network),
	}, nil
}

// SubmitOrder forwards a signed order to the order book verbatim. Pricing is
// never re-derived here: the echoed payload is what the wallet signed, and
// any regeneration would change the order hash and void the signature.
func (s *Service) SubmitOrder(ctx context.Context, signed *domain.SignedOrder) (string, error) {
	signed.Normalize()
	p := signed.Payload

	orderID, err := s.book.CreateOrder(ctx, p.ChainID, orderbook.OrderRequest{
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
		SigningScheme:     signed.SigningScheme,
		Signature:         signed.Signature,
		From:              signed.From,
	})

	rec := &domain.OrderRecord{
		UID:        uuid.New(),
		Wallet:     signed.From,
		ChainID:    p.ChainID,
		SellToken:  p.SellToken,
		BuyToken:   p.BuyToken,
		SellAmount: p.SellAmount,
		BuyAmount:  p.BuyAmount,
		ValidTo:    int64(p.ValidTo),
		Signature:  signed.Signature,
	}

	if err != nil {
		flowErr := s.classifySubmitError(err)
		rec.Status = domain.OrderRejected
		rec.Reason = flowErr.Message
		if _, saveErr := s.orderRepo.SaveOrder(ctx, rec); saveErr != nil {
			s.logger.Errorf("persist rejected order: %v", saveErr)
		}
		return "", flowErr
	}

	rec.Status = domain.OrderSubmitted
	rec.OrderID = orderID
	if _, saveErr := s.orderRepo.SaveOrder(ctx, rec); saveErr != nil {
		// The order is already placed upstream; losing the local record must
		// not fail the submission.
		s.logger.Errorf("persist submitted order %s: %v", orderID, saveErr)
	}

	return orderID, nil
}

func (s *Service) GetOrderByUID(ctx context.Context, uid uuid.UUID) (*domain.OrderRecord, error) {
	return s.orderRepo.GetByUID(ctx, uid)
}

func (s *Service) ListOrdersByWallet(ctx context.Context, wallet string) ([]domain.OrderRecord, error) {
	return s.orderRepo.ListByWallet(ctx, wallet)
}

// ExpireOpenOrders marks submitted orders whose validTo has passed.
func (s *Service) ExpireOpenOrders(ctx context.Context) (int64, error) {
	n, err := s.orderRepo.MarkExpired(ctx, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Infof("expired %d stale orders", n)
	}
	return n, nil
}

func (s *Service) classifyQuoteError(err error) error {
	var apiErr *orderbook.APIError
	switch {
	case errors.As(err, &apiErr):
		return domain.Errf(domain.ErrInvalidRequest, "%s", apiErr.Error())
	case errors.Is(err, protocol.ErrUnsupportedChain):
		return domain.Errf(domain.ErrUnsupportedChain, "%v", err)
	default:
		return domain.Errf(domain.ErrUpstreamUnavailable, "quote source unreachable: %v", err)
	}
}

func (s *Service) classifySubmitError(err error) *domain.FlowError {
	var apiErr *orderbook.APIError
	switch {
	case errors.As(err, &apiErr):
		// Upstream validation message passes through verbatim
		return domain.Errf(domain.ErrSubmissionRejected, "%s", apiErr.Error())
	case errors.Is(err, protocol.ErrUnsupportedChain):
		return domain.Errf(domain.ErrUnsupportedChain, "%v", err)
	default:
		return domain.Errf(domain.ErrUpstreamUnavailable, "order book unreachable: %v", err)
	}
}

func applySlippage(amount *big.Int, bps int64) *big.Int {
	if bps <= 0 {
		return new(big.Int).Set(amount)
	}
	out := new(big.Int).Mul(amount, big.NewInt(10000-bps))
	return out.Div(out, big.NewInt(10000))
}
