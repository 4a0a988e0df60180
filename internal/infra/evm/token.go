package evm

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// TokenClient defines the ERC-20 operations needed to swap a token.
type TokenClient interface {
	// Decimals returns the precision declared by the token contract.
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	// BalanceOf returns the token balance of owner.
	BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)
	// Approve submits approve(spender, amount) and returns the transaction hash
	// without waiting for inclusion.
	Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error)
}

type erc20Client struct {
	contract
	tx *Transactor
}

// NewTokenClient creates an ERC-20 client. Reads go through backend, writes
// through tx.
func NewTokenClient(backend Backend, tx *Transactor, callTimeout time.Duration) (TokenClient, error) {
	c, err := newContract(backend, erc20ABIJSON, callTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "newContract")
	}

	return &erc20Client{contract: c, tx: tx}, nil
}

// Decimals returns the precision declared by the token contract.
func (c *erc20Client) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := c.call(ctx, token, "decimals")
	if err != nil {
		return 0, errors.Wrap(err, "c.call")
	}
	if len(out) == 0 {
		return 0, errors.New("empty decimals result")
	}

	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, errors.Errorf("failed to cast decimals result %T to uint8", out[0])
	}

	return decimals, nil
}

// BalanceOf returns the token balance of owner.
func (c *erc20Client) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, "balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "c.call")
	}
	if len(out) == 0 {
		return nil, errors.New("empty balanceOf result")
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("failed to cast balanceOf result %T to *big.Int", out[0])
	}

	return balance, nil
}

// Approve submits approve(spender, amount). The allowance is set, not
// increased, so repeating the call is harmless.
func (c *erc20Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	data, err := c.abi.Pack("approve", spender, amount)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "c.abi.Pack")
	}

	tx, err := c.tx.Transact(ctx, token, data, 0)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "c.tx.Transact")
	}

	return tx.Hash(), nil
}
