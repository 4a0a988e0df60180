package service

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/dexmath"
	"github.com/fleshka4/autoswap/internal/infra/evm"
	"github.com/fleshka4/autoswap/internal/service/dto"
	"github.com/fleshka4/autoswap/internal/service/validate"
	"github.com/fleshka4/autoswap/internal/units"
)

var _ Swapper = (*SwapService)(nil)

// SwapService executes single swap attempts for one signing account.
type SwapService struct {
	tokens    evm.TokenClient
	router    evm.RouterClient
	waiter    evm.ReceiptWaiter
	quotes    *QuoteService
	approvals *ApprovalManager

	owner  common.Address
	now    func() time.Time
	logger *slog.Logger
}

// Option configures SwapService.
type Option func(*SwapService)

// WithClock overrides the time source used for swap deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *SwapService) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SwapService) {
		s.logger = logger
	}
}

// NewSwapService creates SwapService. owner is the signer: it pays the input
// token and receives the output.
func NewSwapService(
	tokens evm.TokenClient,
	router evm.RouterClient,
	waiter evm.ReceiptWaiter,
	owner common.Address,
	approval ApprovalConfig,
	opts ...Option,
) *SwapService {
	s := &SwapService{
		tokens: tokens,
		router: router,
		waiter: waiter,
		quotes: NewQuoteService(router),
		owner:  owner,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.approvals = NewApprovalManager(tokens, waiter, approval, s.logger)

	return s
}

// ExecuteSwap performs one complete swap attempt: precision and balance
// reads, quote, slippage bound, approval, submission, inclusion and the
// post-swap balance readback. Nothing is retried here; a failure aborts the
// attempt and the next scheduled cycle starts over.
func (s *SwapService) ExecuteSwap(ctx context.Context, req dto.SwapRequest) (*dto.SwapOutcome, error) {
	if err := validate.SwapRequestValidate(req); err != nil {
		return nil, err
	}

	decimalsIn, err := s.tokens.Decimals(ctx, req.TokenIn)
	if err != nil {
		return nil, errors.Wrap(err, "s.tokens.Decimals(in)")
	}
	decimalsOut, err := s.tokens.Decimals(ctx, req.TokenOut)
	if err != nil {
		return nil, errors.Wrap(err, "s.tokens.Decimals(out)")
	}

	amountIn, err := units.ToFixedPoint(req.AmountIn, decimalsIn)
	if err != nil {
		return nil, errors.Wrap(err, "units.ToFixedPoint")
	}
	if amountIn.Sign() == 0 {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "amount is zero")
	}

	before, err := s.balances(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "s.balances(before)")
	}

	s.logger.InfoContext(ctx, "swap prepared",
		slog.String("amount_in", units.ToHuman(amountIn, decimalsIn)),
		slog.String("balance_in", units.ToHuman(before.TokenIn, decimalsIn)),
		slog.String("balance_out", units.ToHuman(before.TokenOut, decimalsOut)),
	)

	path := []common.Address{req.TokenIn, req.TokenOut}
	quote, err := s.quotes.GetQuote(ctx, path, amountIn)
	if err != nil {
		return nil, err
	}

	minOut, ok := dexmath.MinOutput(quote.AmountOut, req.SlippageBps)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrQuoteUnavailable, "cannot bound output %s at %d bps", quote.AmountOut, req.SlippageBps)
	}

	s.logger.InfoContext(ctx, "quote received",
		slog.String("amount_out", units.ToHuman(quote.AmountOut, decimalsOut)),
		slog.String("min_out", units.ToHuman(minOut, decimalsOut)),
		slog.Uint64("slippage_bps", uint64(req.SlippageBps)),
	)

	approval, err := s.approvals.EnsureApproval(ctx, req.TokenIn, s.router.Address(), amountIn)
	if err != nil {
		return nil, err
	}
	if approval.State != ApprovalConfirmed {
		return nil, errors.Wrapf(apperrors.ErrApprovalFailed, "approval is %s", approval.State)
	}

	deadline := s.now().Add(req.DeadlineOffset)
	hash, err := s.router.SwapExactTokensForTokens(ctx, evm.SwapCall{
		AmountIn:     amountIn,
		AmountOutMin: minOut,
		Path:         path,
		To:           s.owner,
		Deadline:     deadline,
	})
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrSwapSubmissionFailed, err.Error())
	}

	s.logger.InfoContext(ctx, "swap submitted, waiting for confirmation", slog.String("tx", hash.Hex()))

	receipt, err := s.waiter.WaitMined(ctx, hash)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrSwapNotConfirmed, "%s: %v", hash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, errors.Wrapf(apperrors.ErrSwapNotConfirmed, "%s reverted in block %v", hash.Hex(), receipt.BlockNumber)
	}

	outcome := &dto.SwapOutcome{
		TxHash:           hash,
		Confirmed:        true,
		TokenIn:          req.TokenIn,
		TokenOut:         req.TokenOut,
		DecimalsIn:       decimalsIn,
		DecimalsOut:      decimalsOut,
		AmountIn:         new(big.Int).Set(amountIn),
		QuotedOut:        quote.AmountOut,
		MinOut:           minOut,
		Deadline:         deadline,
		ApprovalTx:       approval.TxHash,
		ApprovalAttempts: approval.Attempts,
		BlockNumber:      receipt.BlockNumber,
		GasUsed:          receipt.GasUsed,
		Before:           before,
	}

	after, err := s.balances(ctx, req)
	if err != nil {
		// The swap is final on chain; only the readback is missing.
		s.logger.WarnContext(ctx, "post-swap balance read failed", slog.String("tx", hash.Hex()), slog.Any("error", err))
		return outcome, nil
	}
	outcome.After = after

	return outcome, nil
}

func (s *SwapService) balances(ctx context.Context, req dto.SwapRequest) (dto.Balances, error) {
	in, err := s.tokens.BalanceOf(ctx, req.TokenIn, s.owner)
	if err != nil {
		return dto.Balances{}, errors.Wrap(err, "s.tokens.BalanceOf(in)")
	}
	out, err := s.tokens.BalanceOf(ctx, req.TokenOut, s.owner)
	if err != nil {
		return dto.Balances{}, errors.Wrap(err, "s.tokens.BalanceOf(out)")
	}
	return dto.Balances{TokenIn: in, TokenOut: out}, nil
}
