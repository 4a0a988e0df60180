package service

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/infra/evm"
)

// DefaultApprovalAttempts is the number of approval submissions tried before
// a swap cycle gives up.
const DefaultApprovalAttempts = 5

// ApprovalState is the progress of one approval within a swap attempt.
type ApprovalState int

const (
	ApprovalUnconfirmed ApprovalState = iota
	ApprovalConfirmed
	ApprovalFailed
)

func (s ApprovalState) String() string {
	switch s {
	case ApprovalUnconfirmed:
		return "unconfirmed"
	case ApprovalConfirmed:
		return "confirmed"
	case ApprovalFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ApprovalMachine tracks the approval state and the attempts spent so far.
// It is a value type; Next never mutates the receiver.
type ApprovalMachine struct {
	State       ApprovalState
	Attempts    int
	MaxAttempts int
}

// NewApprovalMachine starts in ApprovalUnconfirmed. maxAttempts below 1 is
// treated as 1.
func NewApprovalMachine(maxAttempts int) ApprovalMachine {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return ApprovalMachine{State: ApprovalUnconfirmed, MaxAttempts: maxAttempts}
}

// Next returns the machine after one attempt that succeeded or not.
// Terminal states are absorbing.
func (m ApprovalMachine) Next(succeeded bool) ApprovalMachine {
	if m.State != ApprovalUnconfirmed {
		return m
	}

	m.Attempts++
	switch {
	case succeeded:
		m.State = ApprovalConfirmed
	case m.Attempts >= m.MaxAttempts:
		m.State = ApprovalFailed
	}
	return m
}

// ApprovalConfig controls the approval retry loop.
type ApprovalConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// ApprovalResult reports how an approval ended.
type ApprovalResult struct {
	State    ApprovalState
	Attempts int
	TxHash   common.Hash
}

// ApprovalManager makes sure a spender may move a given amount of a token
// from the signer.
type ApprovalManager struct {
	tokens evm.TokenClient
	waiter evm.ReceiptWaiter
	cfg    ApprovalConfig
	logger *slog.Logger
}

// NewApprovalManager creates ApprovalManager.
func NewApprovalManager(tokens evm.TokenClient, waiter evm.ReceiptWaiter, cfg ApprovalConfig, logger *slog.Logger) *ApprovalManager {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultApprovalAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ApprovalManager{
		tokens: tokens,
		waiter: waiter,
		cfg:    cfg,
		logger: logger,
	}
}

// EnsureApproval submits approve(spender, amount) until one is included with
// a successful receipt or the attempts run out. Each attempt sets an absolute
// allowance, so a duplicate approval after an ambiguous failure is harmless.
func (m *ApprovalManager) EnsureApproval(ctx context.Context, token, spender common.Address, amount *big.Int) (ApprovalResult, error) {
	machine := NewApprovalMachine(m.cfg.MaxAttempts)

	var (
		hash     common.Hash
		attempts error
	)
	for machine.State == ApprovalUnconfirmed {
		var err error
		hash, err = m.attempt(ctx, token, spender, amount)
		machine = machine.Next(err == nil)

		if err == nil {
			m.logger.InfoContext(ctx, "approval confirmed",
				slog.String("tx", hash.Hex()),
				slog.Int("attempt", machine.Attempts),
			)
			break
		}

		attempts = multierr.Append(attempts, err)
		m.logger.WarnContext(ctx, "approval attempt failed",
			slog.Int("attempt", machine.Attempts),
			slog.Int("max_attempts", machine.MaxAttempts),
			slog.Any("error", err),
		)

		if machine.State != ApprovalUnconfirmed {
			break
		}
		if err := m.pause(ctx); err != nil {
			return ApprovalResult{State: ApprovalFailed, Attempts: machine.Attempts}, errors.Wrap(err, "approval retry interrupted")
		}
	}

	result := ApprovalResult{State: machine.State, Attempts: machine.Attempts, TxHash: hash}
	if machine.State != ApprovalConfirmed {
		return result, errors.Wrapf(apperrors.ErrApprovalFailed, "%d attempts: %v", machine.Attempts, attempts)
	}
	return result, nil
}

func (m *ApprovalManager) attempt(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	hash, err := m.tokens.Approve(ctx, token, spender, amount)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "m.tokens.Approve")
	}

	receipt, err := m.waiter.WaitMined(ctx, hash)
	if err != nil {
		return hash, errors.Wrap(err, "m.waiter.WaitMined")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return hash, errors.Errorf("approval %s reverted", hash.Hex())
	}

	return hash, nil
}

func (m *ApprovalManager) pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.cfg.RetryDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(m.cfg.RetryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
