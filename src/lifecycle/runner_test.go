package lifecycle

import (
	"context"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cowtrade/cowtrade/src/order/domain"
	"github.com/cowtrade/cowtrade/src/protocol"
	"github.com/cowtrade/cowtrade/src/signing"
)

const testKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// usdc on mainnet, matches the sell token in testIntent
const usdcMainnet = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

func testIntent() domain.SwapIntent {
	return domain.SwapIntent{
		SellToken: "USDC",
		BuyToken:  "DAI",
		AmountIn:  decimal.RequireFromString("100"),
		ChainID:   1,
		Wallet:    "0x1234567890123456789012345678901234567890",
	}
}

func testQuote(chainID int64) *domain.Quote {
	return &domain.Quote{
		Payload: domain.OrderPayload{
			SellToken:         usdcMainnet,
			BuyToken:          "0x6b175474e89094c44da98b954eedeac495271d0f",
			Receiver:          "0x1234567890123456789012345678901234567890",
			SellAmount:        "100000000",
			BuyAmount:         "99500000000000000000",
			ValidTo:           1893456000,
			AppData:           "0x0000000000000000000000000000000000000000000000000000000000000000",
			FeeAmount:         "0",
			Kind:              "sell",
			SellTokenBalance:  "erc20",
			BuyTokenBalance:   "erc20",
			ChainID:           chainID,
		},
		AmountOut: decimal.RequireFromString("99.5"),
		Route:     "CoW Protocol batch auction (mainnet)",
	}
}

type fakeChain struct {
	balance    *big.Int
	allowance  *big.Int
	approveErr error

	approveCalls  int
	approvedToken string
	approvedWith  *big.Int
	spender       string
}

func (f *fakeChain) Allowance(ctx context.Context, tokenAddr, owner, spender string) (*big.Int, error) {
	return new(big.Int).Set(f.allowance), nil
}

func (f *fakeChain) BalanceOf(ctx context.Context, tokenAddr, owner string) (*big.Int, error) {
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeChain) Approve(ctx context.Context, tokenAddr, spender string, amount *big.Int) (string, error) {
	f.approveCalls++
	f.approvedToken = tokenAddr
	f.approvedWith = new(big.Int).Set(amount)
	f.spender = spender
	if f.approveErr != nil {
		return "", f.approveErr
	}
	f.allowance = new(big.Int).Set(amount)
	return "0xdeadbeef", nil
}

type fakeAPI struct {
	quote     *domain.Quote
	createErr error
	submitErr error

	createCalls int
	submitCalls int
	submitted   *domain.SignedOrder
}

func (f *fakeAPI) CreateOrder(ctx context.Context, intent domain.SwapIntent) (*domain.Quote, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.quote, nil
}

func (f *fakeAPI) SubmitOrder(ctx context.Context, signed *domain.SignedOrder) (string, error) {
	f.submitCalls++
	f.submitted = signed
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "0xorderuid", nil
}

func newTestSigner(t *testing.T, decline bool) *signing.LocalSigner {
	t.Helper()
	signer, err := signing.NewLocalSigner(testKey, 1)
	if err != nil {
		t.Fatalf("NewLocalSigner: %v", err)
	}
	if decline {
		signer.Confirm = func() bool { return false }
	}
	return signer
}

// 100 USDC in base units
var sellBase = big.NewInt(100000000)

func TestRunnerApprovalPath(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(0)}
	api := &fakeAPI{quote: testQuote(1)}

	var states []State
	runner := NewRunner(chain, api, newTestSigner(t, false), func(s State) {
		states = append(states, s)
	})

	result, err := runner.Run(context.Background(), testIntent())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.OrderID != "0xorderuid" {
		t.Errorf("order id = %q", result.OrderID)
	}

	want := []State{StateCheckingApproval, StateApproving, StateCreating, StateSigning, StateSubmitting, StateSuccess}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}

	if chain.approveCalls != 1 {
		t.Errorf("approve called %d times, want 1", chain.approveCalls)
	}
	if chain.approvedWith.Cmp(sellBase) != 0 {
		t.Errorf("approved %s, want exact sell amount %s", chain.approvedWith, sellBase)
	}
	if chain.spender != protocol.VaultRelayerAddress {
		t.Errorf("approved spender %s, want vault relayer", chain.spender)
	}
	if chain.approvedToken != usdcMainnet {
		t.Errorf("approved token %s, want usdc", chain.approvedToken)
	}
	if !runner.Approved() || runner.ApprovalTx() == "" {
		t.Error("runner should report the approval")
	}
}

func TestRunnerSkipsApprovalWhenAllowanceSuffices(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(500000000)}
	api := &fakeAPI{quote: testQuote(1)}

	var states []State
	runner := NewRunner(chain, api, newTestSigner(t, false), func(s State) {
		states = append(states, s)
	})

	if _, err := runner.Run(context.Background(), testIntent()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if chain.approveCalls != 0 {
		t.Errorf("approve called %d times, want 0", chain.approveCalls)
	}
	for _, s := range states {
		if s == StateApproving {
			t.Error("approving state should be skipped")
		}
	}
}

func TestRunnerInsufficientBalance(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(1), allowance: big.NewInt(0)}
	api := &fakeAPI{quote: testQuote(1)}
	runner := NewRunner(chain, api, newTestSigner(t, false), nil)

	_, err := runner.Run(context.Background(), testIntent())
	if domain.KindOf(err) != domain.ErrInsufficientBalance {
		t.Fatalf("kind = %v, want insufficient balance", domain.KindOf(err))
	}
	if chain.approveCalls != 0 {
		t.Error("no approval should happen for an unfunded swap")
	}
	if api.createCalls != 0 {
		t.Error("no order should be created for an unfunded swap")
	}
	if runner.State() != StateError {
		t.Errorf("state = %q, want error", runner.State())
	}
}

func TestRunnerCreateFailureStopsFlow(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(500000000)}
	api := &fakeAPI{createErr: domain.Errf(domain.ErrUpstreamUnavailable, "order book down")}
	runner := NewRunner(chain, api, newTestSigner(t, false), nil)

	_, err := runner.Run(context.Background(), testIntent())
	if domain.KindOf(err) != domain.ErrUpstreamUnavailable {
		t.Fatalf("kind = %v, want upstream unavailable", domain.KindOf(err))
	}
	if api.submitCalls != 0 {
		t.Error("nothing should be submitted when creation fails")
	}
}

func TestRunnerDeclinedSignatureSubmitsNothing(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(500000000)}
	api := &fakeAPI{quote: testQuote(1)}
	runner := NewRunner(chain, api, newTestSigner(t, true), nil)

	_, err := runner.Run(context.Background(), testIntent())
	if domain.KindOf(err) != domain.ErrSignatureDeclined {
		t.Fatalf("kind = %v, want signature declined", domain.KindOf(err))
	}
	if api.submitCalls != 0 {
		t.Error("declined order must not be submitted")
	}
}

func TestRunnerChainMismatchFailsBeforeSigning(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(500000000)}
	api := &fakeAPI{quote: testQuote(100)}
	runner := NewRunner(chain, api, newTestSigner(t, false), nil)

	_, err := runner.Run(context.Background(), testIntent())
	if domain.KindOf(err) != domain.ErrInvalidRequest {
		t.Fatalf("kind = %v, want invalid request", domain.KindOf(err))
	}
	if api.submitCalls != 0 {
		t.Error("mismatched order must not be submitted")
	}
}

func TestRunnerExpiredQuoteFailsBeforeSigning(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(500000000)}
	quote := testQuote(1)
	quote.Payload.ValidTo = 1600000000 // long past
	api := &fakeAPI{quote: quote}
	runner := NewRunner(chain, api, newTestSigner(t, false), nil)

	_, err := runner.Run(context.Background(), testIntent())
	if domain.KindOf(err) != domain.ErrInvalidRequest {
		t.Fatalf("kind = %v, want invalid request", domain.KindOf(err))
	}
	if api.submitCalls != 0 {
		t.Error("expired order must not be submitted")
	}
}

func TestRunnerSubmitsSignedPayloadVerbatim(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(500000000)}
	api := &fakeAPI{quote: testQuote(1)}
	runner := NewRunner(chain, api, newTestSigner(t, false), nil)

	result, err := runner.Run(context.Background(), testIntent())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if api.submitCalls != 1 {
		t.Fatalf("submit called %d times, want exactly 1", api.submitCalls)
	}
	if api.submitted.Payload != result.Payload {
		t.Error("submitted payload differs from signed payload")
	}
	want := testQuote(1).Payload
	want.Normalize()
	if api.submitted.Payload != want {
		t.Error("submitted payload differs from the quoted payload")
	}
	if api.submitted.Signature == "" {
		t.Error("submitted order carries no signature")
	}
}

func TestRunnerIsSingleUse(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(500000000)}
	api := &fakeAPI{quote: testQuote(1)}
	runner := NewRunner(chain, api, newTestSigner(t, false), nil)

	if _, err := runner.Run(context.Background(), testIntent()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := runner.Run(context.Background(), testIntent()); err == nil {
		t.Error("second Run should be rejected")
	}
	if api.submitCalls != 1 {
		t.Errorf("submit called %d times across runs, want 1", api.submitCalls)
	}
}

func TestRunnerFailedApprovalReread(t *testing.T) {
	// Approve succeeds but the allowance stays put, as USDT-style tokens do
	// when an approval silently no-ops.
	chain := &fakeChain{balance: big.NewInt(200000000), allowance: big.NewInt(0)}
	api := &fakeAPI{quote: testQuote(1)}
	runner := NewRunner(&stuckAllowanceChain{fakeChain: chain}, api, newTestSigner(t, false), nil)

	_, err := runner.Run(context.Background(), testIntent())
	if domain.KindOf(err) != domain.ErrApprovalFailed {
		t.Fatalf("kind = %v, want approval failed", domain.KindOf(err))
	}
	if api.createCalls != 0 {
		t.Error("no order should be created without a confirmed allowance")
	}
}

type stuckAllowanceChain struct {
	*fakeChain
}

func (s *stuckAllowanceChain) Approve(ctx context.Context, tokenAddr, spender string, amount *big.Int) (string, error) {
	s.approveCalls++
	return "0xdeadbeef", nil
}
