package evm

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// ReceiptWaiter waits for a submitted transaction to be included.
type ReceiptWaiter interface {
	// WaitMined blocks until the receipt of hash is available, ctx is done or
	// the waiter's own timeout expires. The receipt status is not checked.
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// ReceiptReader reads transaction receipts.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type receiptPoller struct {
	reader   ReceiptReader
	interval time.Duration
	timeout  time.Duration
}

// NewReceiptWaiter polls reader every interval. A positive timeout bounds a
// single wait.
func NewReceiptWaiter(reader ReceiptReader, interval, timeout time.Duration) ReceiptWaiter {
	if interval <= 0 {
		interval = time.Second
	}
	return &receiptPoller{
		reader:   reader,
		interval: interval,
		timeout:  timeout,
	}
}

// WaitMined polls for the receipt of hash. Lookup errors other than
// ethereum.NotFound are kept and reported if the wait ends without a receipt.
func (p *receiptPoller) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := p.reader.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, errors.Wrapf(ctx.Err(), "wait for %s (last error: %v)", hash.Hex(), lastErr)
			}
			return nil, errors.Wrapf(ctx.Err(), "wait for %s", hash.Hex())
		case <-ticker.C:
		}
	}
}
