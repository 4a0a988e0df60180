package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// DefaultGasBufferPercent is added on top of an estimated gas limit.
const DefaultGasBufferPercent = 20

// GasConfig controls gas pricing of submitted transactions.
type GasConfig struct {
	// Price is the legacy gas price in wei; nil asks the node.
	Price *big.Int
	// BufferPercent is applied to estimated limits.
	BufferPercent uint64
}

// Transactor builds, signs and submits transactions from one account.
// It is not safe for concurrent use: nonces are taken from the pending state
// right before submission.
type Transactor struct {
	backend Backend
	signer  *Signer
	gas     GasConfig
}

// NewTransactor creates a Transactor.
func NewTransactor(backend Backend, signer *Signer, gas GasConfig) *Transactor {
	return &Transactor{
		backend: backend,
		signer:  signer,
		gas:     gas,
	}
}

// From returns the sending account.
func (t *Transactor) From() common.Address {
	return t.signer.Address()
}

// Transact sends a call to `to` with the given calldata. A zero gasLimit is
// estimated by the node and increased by the configured buffer.
func (t *Transactor) Transact(ctx context.Context, to common.Address, data []byte, gasLimit uint64) (*types.Transaction, error) {
	from := t.signer.Address()

	nonce, err := t.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "t.backend.PendingNonceAt")
	}

	gasPrice := t.gas.Price
	if gasPrice == nil {
		gasPrice, err = t.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "t.backend.SuggestGasPrice")
		}
	}

	if gasLimit == 0 {
		estimated, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			To:       &to,
			GasPrice: gasPrice,
			Data:     data,
		})
		if err != nil {
			return nil, errors.Wrap(err, "t.backend.EstimateGas")
		}
		gasLimit = estimated * (100 + t.gas.BufferPercent) / 100
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    new(big.Int),
		Data:     data,
	})

	signed, err := t.signer.Sign(tx)
	if err != nil {
		return nil, errors.Wrap(err, "t.signer.Sign")
	}

	if err := t.backend.SendTransaction(ctx, signed); err != nil {
		return nil, errors.Wrap(err, "t.backend.SendTransaction")
	}

	return signed, nil
}
