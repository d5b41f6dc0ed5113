package lifecycle

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/cowtrade/cowtrade/src/order/domain"
	"github.com/cowtrade/cowtrade/src/protocol"
	"github.com/cowtrade/cowtrade/src/signing"
	"github.com/cowtrade/cowtrade/src/token"
)

// Chain is the on-chain surface the runner needs: ERC-20 reads and the
// approval write against the settlement's vault relayer.
type Chain interface {
	Allowance(ctx context.Context, tokenAddr, owner, spender string) (*big.Int, error)
	BalanceOf(ctx context.Context, tokenAddr, owner string) (*big.Int, error)
	Approve(ctx context.Context, tokenAddr, spender string, amount *big.Int) (txHash string, err error)
}

// OrderAPI is the front-end server surface: quote (order creation) and
// signed-order submission.
type OrderAPI interface {
	CreateOrder(ctx context.Context, intent domain.SwapIntent) (*domain.Quote, error)
	SubmitOrder(ctx context.Context, signed *domain.SignedOrder) (string, error)
}

// Observer is notified on every state change. Used by the CLI to drive
// spinner text; nil is fine.
type Observer func(State)

// Result is the outcome of a completed run.
type Result struct {
	OrderID string
	Payload domain.OrderPayload
}

// Runner executes one swap end to end. A Runner is single-use.
type Runner struct {
	chain      Chain
	api        OrderAPI
	signer     signing.Signer
	observe    Observer
	state      State
	approved   bool
	approvalTx string
}

func NewRunner(chain Chain, api OrderAPI, signer signing.Signer, observe Observer) *Runner {
	if observe == nil {
		observe = func(State) {}
	}
	return &Runner{chain: chain, api: api, signer: signer, observe: observe, state: StateIdle}
}

// State returns the runner's current state.
func (r *Runner) State() State { return r.state }

// Approved reports whether this run sent an approval transaction.
func (r *Runner) Approved() bool { return r.approved }

// ApprovalTx returns the approval transaction hash, empty when no approval
// was needed.
func (r *Runner) ApprovalTx() string { return r.approvalTx }

func (r *Runner) step(ev Event) error {
	next, err := Next(r.state, ev)
	if err != nil {
		return err
	}
	r.state = next
	r.observe(next)
	return nil
}

func (r *Runner) fail(err error) error {
	_ = r.step(EventFail)
	return err
}

// Run drives the swap: balance and allowance checks, exact-amount approval
// when needed, order creation, signing, and a single submission attempt.
// The payload returned by creation is signed and submitted verbatim.
func (r *Runner) Run(ctx context.Context, intent domain.SwapIntent) (*Result, error) {
	if r.state != StateIdle {
		return nil, errors.New("runner already ran")
	}
	if err := r.step(EventStart); err != nil {
		return nil, err
	}

	tok, err := token.Resolve(intent.ChainID, intent.SellToken)
	if err != nil {
		return nil, r.fail(domain.Errf(domain.ErrInvalidRequest, "resolve sell token: %v", err))
	}
	sellAmount, err := token.ToBaseUnits(intent.AmountIn, tok.Decimals)
	if err != nil {
		return nil, r.fail(domain.Errf(domain.ErrInvalidRequest, "sell amount: %v", err))
	}
	owner := r.signer.Address()

	// Balance first: do not touch the wallet for a swap that cannot settle.
	balance, err := r.chain.BalanceOf(ctx, tok.Address, owner)
	if err != nil {
		return nil, r.fail(domain.Errf(domain.ErrUpstreamUnavailable, "read balance: %v", err))
	}
	if balance.Cmp(sellAmount) < 0 {
		return nil, r.fail(domain.Errf(domain.ErrInsufficientBalance,
			"balance %s below sell amount %s for %s", balance, sellAmount, tok.Symbol))
	}

	allowance, err := r.chain.Allowance(ctx, tok.Address, owner, protocol.VaultRelayerAddress)
	if err != nil {
		return nil, r.fail(domain.Errf(domain.ErrUpstreamUnavailable, "read allowance: %v", err))
	}

	if allowance.Cmp(sellAmount) < 0 {
		if err := r.step(EventNeedApproval); err != nil {
			return nil, err
		}
		txHash, err := r.chain.Approve(ctx, tok.Address, protocol.VaultRelayerAddress, sellAmount)
		if err != nil {
			return nil, r.fail(domain.Errf(domain.ErrApprovalFailed, "approve: %v", err))
		}
		r.approved = true
		r.approvalTx = txHash
		// Re-read rather than trust the receipt: tokens like USDT can
		// reject non-zero-to-non-zero approvals without reverting.
		allowance, err = r.chain.Allowance(ctx, tok.Address, owner, protocol.VaultRelayerAddress)
		if err != nil {
			return nil, r.fail(domain.Errf(domain.ErrUpstreamUnavailable, "re-read allowance: %v", err))
		}
		if allowance.Cmp(sellAmount) < 0 {
			return nil, r.fail(domain.Errf(domain.ErrApprovalFailed,
				"allowance %s still below sell amount %s after approval", allowance, sellAmount))
		}
		if err := r.step(EventApproved); err != nil {
			return nil, err
		}
	} else {
		if err := r.step(EventCreate); err != nil {
			return nil, err
		}
	}

	quote, err := r.api.CreateOrder(ctx, intent)
	if err != nil {
		return nil, r.fail(err)
	}
	if quote.Payload.ChainID != r.signer.ChainID() {
		return nil, r.fail(domain.Errf(domain.ErrInvalidRequest,
			"order is for chain %d but signer is on chain %d", quote.Payload.ChainID, r.signer.ChainID()))
	}
	if quote.Payload.Expired(time.Now()) {
		return nil, r.fail(domain.Errf(domain.ErrInvalidRequest,
			"quoted order already expired at %d", quote.Payload.ValidTo))
	}
	if err := r.step(EventCreated); err != nil {
		return nil, err
	}

	signed, err := signing.SignOrder(ctx, r.signer, quote.Payload)
	if err != nil {
		if errors.Is(err, signing.ErrSignatureDeclined) {
			return nil, r.fail(domain.Errf(domain.ErrSignatureDeclined, "signature declined"))
		}
		return nil, r.fail(domain.Errf(domain.ErrSignatureDeclined, "sign order: %v", err))
	}
	if err := r.step(EventSigned); err != nil {
		return nil, err
	}

	orderID, err := r.api.SubmitOrder(ctx, signed)
	if err != nil {
		return nil, r.fail(err)
	}
	if err := r.step(EventSubmitted); err != nil {
		return nil, err
	}

	return &Result{OrderID: orderID, Payload: signed.Payload}, nil
}
