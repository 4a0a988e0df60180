package evm

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// SwapCall holds the arguments of swapExactTokensForTokens.
type SwapCall struct {
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
	To           common.Address
	Deadline     time.Time
}

// RouterClient defines the DEX router operations used by the swap engine.
type RouterClient interface {
	// Address returns the router contract address, the spender to approve.
	Address() common.Address
	// GetAmountsOut returns the router's pricing of amountIn along path.
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
	// SwapExactTokensForTokens submits the swap and returns the transaction
	// hash without waiting for inclusion.
	SwapExactTokensForTokens(ctx context.Context, call SwapCall) (common.Hash, error)
}

type routerClient struct {
	contract
	address  common.Address
	tx       *Transactor
	gasLimit uint64
}

// NewRouterClient creates a router client for the router at address. A zero
// swapGasLimit lets the node estimate the swap gas.
func NewRouterClient(backend Backend, tx *Transactor, address common.Address, swapGasLimit uint64, callTimeout time.Duration) (RouterClient, error) {
	c, err := newContract(backend, routerABIJSON, callTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "newContract")
	}

	return &routerClient{
		contract: c,
		address:  address,
		tx:       tx,
		gasLimit: swapGasLimit,
	}, nil
}

func (c *routerClient) Address() common.Address {
	return c.address
}

// GetAmountsOut returns the router's pricing of amountIn along path.
func (c *routerClient) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	out, err := c.call(ctx, c.address, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, errors.Wrap(err, "c.call")
	}
	if len(out) == 0 {
		return nil, errors.New("empty getAmountsOut result")
	}

	amounts, ok := out[0].([]*big.Int)
	if !ok {
		return nil, errors.Errorf("failed to cast getAmountsOut result %T to []*big.Int", out[0])
	}

	return amounts, nil
}

// SwapExactTokensForTokens submits the swap transaction.
func (c *routerClient) SwapExactTokensForTokens(ctx context.Context, call SwapCall) (common.Hash, error) {
	data, err := c.abi.Pack(
		"swapExactTokensForTokens",
		call.AmountIn,
		call.AmountOutMin,
		call.Path,
		call.To,
		big.NewInt(call.Deadline.Unix()),
	)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "c.abi.Pack")
	}

	tx, err := c.tx.Transact(ctx, c.address, data, c.gasLimit)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "c.tx.Transact")
	}

	return tx.Hash(), nil
}
