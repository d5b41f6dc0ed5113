package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc20ABI = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "symbol",
		"outputs": [{"name": "", "type": "string"}],
		"type": "function"
	}
]`

// Errors
var (
	ErrMissingEnvVars    = errors.New("missing required configuration")
	ErrConnectNetwork    = errors.New("failed to connect to network")
	ErrInvalidPrivateKey = errors.New("failed to parse private key")
	ErrParseABI          = errors.New("failed to parse ABI")
	ErrCreateTransactor  = errors.New("failed to create transactor")
	ErrContractCall      = errors.New("failed to call contract function")
	ErrSendTransaction   = errors.New("failed to send transaction")
	ErrMineTransaction   = errors.New("failed to mine transaction")
	ErrApprovalReverted  = errors.New("approval transaction reverted")
	ErrNoSigningKey      = errors.New("no signing key configured")
)

// Config holds Ethereum client config
type Config struct {
	RPCURL     string
	PrivateKey string // optional; required only for Approve
	ChainID    *big.Int
}

// Client wraps an ethclient plus the universal ERC-20 ABI. Token contracts
// are bound lazily per address.
type Client struct {
	client     *ethclient.Client
	wallet     common.Address
	privateKey *ecdsa.PrivateKey
	erc20      abi.ABI
	config     Config
}

// NewClient initializes the client. A private key is only needed when the
// client will send approval transactions.
func NewClient(ctx context.Context, config Config) (*Client, error) {
	if config.RPCURL == "" {
		return nil, fmt.Errorf("%w: RPC_URL", ErrMissingEnvVars)
	}
	client, err := ethclient.DialContext(ctx, config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectNetwork, err)
	}

	erc20Parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ERC20 ABI: %v", ErrParseABI, err)
	}

	c := &Client{
		client: client,
		erc20:  erc20Parsed,
		config: config,
	}

	if config.PrivateKey != "" {
		key := strings.TrimPrefix(config.PrivateKey, "0x")
		privateKey, err := crypto.HexToECDSA(key)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		c.privateKey = privateKey
		c.wallet = crypto.PubkeyToAddress(privateKey.PublicKey)
	}

	return c, nil
}

func (c *Client) Close() { c.client.Close() }

func (c *Client) WalletAddress() common.Address { return c.wallet }

func (c *Client) bound(token string) *bind.BoundContract {
	return bind.NewBoundContract(common.HexToAddress(token), c.erc20, c.client, c.client, c.client)
}

// Allowance reads allowance(owner, spender) on the token contract.
func (c *Client) Allowance(ctx context.Context, token, owner, spender string) (*big.Int, error) {
	var result []interface{}
	err := c.bound(token).Call(&bind.CallOpts{Context: ctx}, &result, "allowance",
		common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return nil, fmt.Errorf("%w: allowance: %v", ErrContractCall, err)
	}
	return result[0].(*big.Int), nil
}

// BalanceOf reads the owner's token balance.
func (c *Client) BalanceOf(ctx context.Context, token, owner string) (*big.Int, error) {
	var result []interface{}
	err := c.bound(token).Call(&bind.CallOpts{Context: ctx}, &result, "balanceOf",
		common.HexToAddress(owner))
	if err != nil {
		return nil, fmt.Errorf("%w: balanceOf: %v", ErrContractCall, err)
	}
	return result[0].(*big.Int), nil
}

// Approve sends approve(spender, amount) and blocks until the transaction is
// mined. The amount is the exact amount required by the pending order, not an
// unbounded maximum.
func (c *Client) Approve(ctx context.Context, token, spender string, amount *big.Int) (string, error) {
	if c.privateKey == nil {
		return "", ErrNoSigningKey
	}

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.config.ChainID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCreateTransactor, err)
	}
	auth.Context = ctx

	tx, err := c.bound(token).Transact(auth, "approve", common.HexToAddress(spender), amount)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendTransaction, err)
	}

	receipt, err := bind.WaitMined(ctx, c.client, tx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMineTransaction, err)
	}
	if receipt.Status != 1 {
		return tx.Hash().Hex(), fmt.Errorf("%w: tx %s", ErrApprovalReverted, tx.Hash().Hex())
	}
	return tx.Hash().Hex(), nil
}
