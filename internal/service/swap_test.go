package service

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/infra/evm"
	"github.com/fleshka4/autoswap/internal/infra/evm/mock"
	"github.com/fleshka4/autoswap/internal/service/dto"
)

type bigMatcher struct{ want *big.Int }

func (m bigMatcher) Matches(x any) bool {
	got, ok := x.(*big.Int)
	return ok && got != nil && got.Cmp(m.want) == 0
}

func (m bigMatcher) String() string { return fmt.Sprintf("is %s", m.want) }

func bigEq(v int64) gomock.Matcher { return bigMatcher{want: big.NewInt(v)} }

type swapFixture struct {
	tokens *mock.MockTokenClient
	router *mock.MockRouterClient
	waiter *mock.MockReceiptWaiter
	svc    *SwapService
}

var (
	tokenA     = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	tokenB     = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	routerAddr = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	owner      = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	approveTx  = common.HexToHash("0x0a")
	swapTx     = common.HexToHash("0x0b")
	fixedNow   = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
)

// 0.001 at 18 decimals.
const milliToken = 1_000_000_000_000_000

func newSwapFixture(t *testing.T) swapFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := swapFixture{
		tokens: mock.NewMockTokenClient(ctrl),
		router: mock.NewMockRouterClient(ctrl),
		waiter: mock.NewMockReceiptWaiter(ctrl),
	}
	f.router.EXPECT().Address().Return(routerAddr).AnyTimes()
	f.svc = NewSwapService(f.tokens, f.router, f.waiter, owner,
		ApprovalConfig{MaxAttempts: DefaultApprovalAttempts},
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(discardLogger()),
	)
	return f
}

func createSwapRequest() dto.SwapRequest {
	return dto.SwapRequest{
		TokenIn:        tokenA,
		TokenOut:       tokenB,
		AmountIn:       "0.001",
		SlippageBps:    500,
		DeadlineOffset: 10 * time.Minute,
	}
}

func (f swapFixture) expectPrelude() {
	f.tokens.EXPECT().Decimals(gomock.Any(), tokenA).Return(uint8(18), nil)
	f.tokens.EXPECT().Decimals(gomock.Any(), tokenB).Return(uint8(6), nil)
}

func (f swapFixture) expectBalances(in, out int64) []any {
	return []any{
		f.tokens.EXPECT().BalanceOf(gomock.Any(), tokenA, owner).Return(big.NewInt(in), nil),
		f.tokens.EXPECT().BalanceOf(gomock.Any(), tokenB, owner).Return(big.NewInt(out), nil),
	}
}

func TestExecuteSwap_Success(t *testing.T) {
	t.Parallel()

	f := newSwapFixture(t)
	f.expectPrelude()

	calls := f.expectBalances(5*milliToken, 100)
	calls = append(calls,
		f.router.EXPECT().GetAmountsOut(gomock.Any(), bigEq(milliToken), []common.Address{tokenA, tokenB}).
			Return([]*big.Int{big.NewInt(milliToken), big.NewInt(2_000_000)}, nil),
		f.tokens.EXPECT().Approve(gomock.Any(), tokenA, routerAddr, bigEq(milliToken)).Return(approveTx, nil),
		f.waiter.EXPECT().WaitMined(gomock.Any(), approveTx).
			Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(41)}, nil),
		f.router.EXPECT().SwapExactTokensForTokens(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, call evm.SwapCall) (common.Hash, error) {
				require.Zero(t, call.AmountIn.Cmp(big.NewInt(milliToken)))
				require.Zero(t, call.AmountOutMin.Cmp(big.NewInt(1_900_000)))
				require.Equal(t, []common.Address{tokenA, tokenB}, call.Path)
				require.Equal(t, owner, call.To)
				require.Equal(t, fixedNow.Add(10*time.Minute), call.Deadline)
				return swapTx, nil
			}),
		f.waiter.EXPECT().WaitMined(gomock.Any(), swapTx).
			Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(42), GasUsed: 120_000}, nil),
	)
	calls = append(calls, f.expectBalances(4*milliToken, 1_950_100)...)
	gomock.InOrder(calls...)

	out, err := f.svc.ExecuteSwap(context.Background(), createSwapRequest())
	require.NoError(t, err)
	require.True(t, out.Confirmed)
	require.Equal(t, swapTx, out.TxHash)
	require.Equal(t, approveTx, out.ApprovalTx)
	require.Equal(t, 1, out.ApprovalAttempts)
	require.Equal(t, uint8(18), out.DecimalsIn)
	require.Equal(t, uint8(6), out.DecimalsOut)
	require.Zero(t, out.QuotedOut.Cmp(big.NewInt(2_000_000)))
	require.Zero(t, out.MinOut.Cmp(big.NewInt(1_900_000)))
	require.Zero(t, out.Before.TokenIn.Cmp(big.NewInt(5*milliToken)))
	require.Zero(t, out.After.TokenOut.Cmp(big.NewInt(1_950_100)))
	require.Equal(t, uint64(120_000), out.GasUsed)
	require.Equal(t, int64(42), out.BlockNumber.Int64())
}

func TestExecuteSwap_InvalidRequest(t *testing.T) {
	t.Parallel()

	f := newSwapFixture(t)

	req := createSwapRequest()
	req.TokenOut = req.TokenIn

	out, err := f.svc.ExecuteSwap(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	require.Nil(t, out)
}

func TestExecuteSwap_InvalidAmount(t *testing.T) {
	t.Parallel()

	for _, amount := range []string{"abc", "-1", "0", "0.0000000000000000001"} {
		t.Run(amount, func(t *testing.T) {
			t.Parallel()

			f := newSwapFixture(t)
			f.expectPrelude()

			req := createSwapRequest()
			req.AmountIn = amount

			out, err := f.svc.ExecuteSwap(context.Background(), req)
			require.ErrorIs(t, err, apperrors.ErrInvalidAmount)
			require.Nil(t, out)
		})
	}
}

func TestExecuteSwap_QuoteUnavailable(t *testing.T) {
	t.Parallel()

	f := newSwapFixture(t)
	f.expectPrelude()
	f.expectBalances(5*milliToken, 0)

	f.router.EXPECT().GetAmountsOut(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*big.Int{big.NewInt(milliToken)}, nil)
	f.tokens.EXPECT().Approve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.router.EXPECT().SwapExactTokensForTokens(gomock.Any(), gomock.Any()).Times(0)

	out, err := f.svc.ExecuteSwap(context.Background(), createSwapRequest())
	require.ErrorIs(t, err, apperrors.ErrQuoteUnavailable)
	require.Nil(t, out)
}

func TestExecuteSwap_ApprovalFailed(t *testing.T) {
	t.Parallel()

	f := newSwapFixture(t)
	f.expectPrelude()
	f.expectBalances(5*milliToken, 0)

	f.router.EXPECT().GetAmountsOut(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*big.Int{big.NewInt(milliToken), big.NewInt(2_000_000)}, nil)
	f.tokens.EXPECT().Approve(gomock.Any(), tokenA, routerAddr, gomock.Any()).
		Return(common.Hash{}, errors.New("insufficient funds for gas")).Times(DefaultApprovalAttempts)
	f.router.EXPECT().SwapExactTokensForTokens(gomock.Any(), gomock.Any()).Times(0)

	out, err := f.svc.ExecuteSwap(context.Background(), createSwapRequest())
	require.ErrorIs(t, err, apperrors.ErrApprovalFailed)
	require.Nil(t, out)
}

func (f swapFixture) expectThroughApproval() {
	f.expectPrelude()
	f.expectBalances(5*milliToken, 0)
	f.router.EXPECT().GetAmountsOut(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*big.Int{big.NewInt(milliToken), big.NewInt(2_000_000)}, nil)
	f.tokens.EXPECT().Approve(gomock.Any(), tokenA, routerAddr, gomock.Any()).Return(approveTx, nil)
	f.waiter.EXPECT().WaitMined(gomock.Any(), approveTx).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)
}

func TestExecuteSwap_SubmissionFailed(t *testing.T) {
	t.Parallel()

	f := newSwapFixture(t)
	f.expectThroughApproval()
	f.router.EXPECT().SwapExactTokensForTokens(gomock.Any(), gomock.Any()).
		Return(common.Hash{}, errors.New("replacement transaction underpriced"))

	out, err := f.svc.ExecuteSwap(context.Background(), createSwapRequest())
	require.ErrorIs(t, err, apperrors.ErrSwapSubmissionFailed)
	require.Contains(t, err.Error(), "underpriced")
	require.Nil(t, out)
}

func TestExecuteSwap_NotConfirmed(t *testing.T) {
	t.Parallel()

	t.Run("reverted", func(t *testing.T) {
		t.Parallel()

		f := newSwapFixture(t)
		f.expectThroughApproval()
		f.router.EXPECT().SwapExactTokensForTokens(gomock.Any(), gomock.Any()).Return(swapTx, nil)
		f.waiter.EXPECT().WaitMined(gomock.Any(), swapTx).
			Return(&types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(42)}, nil)

		out, err := f.svc.ExecuteSwap(context.Background(), createSwapRequest())
		require.ErrorIs(t, err, apperrors.ErrSwapNotConfirmed)
		require.Nil(t, out)
	})

	t.Run("wait failed", func(t *testing.T) {
		t.Parallel()

		f := newSwapFixture(t)
		f.expectThroughApproval()
		f.router.EXPECT().SwapExactTokensForTokens(gomock.Any(), gomock.Any()).Return(swapTx, nil)
		f.waiter.EXPECT().WaitMined(gomock.Any(), swapTx).Return(nil, context.DeadlineExceeded)

		out, err := f.svc.ExecuteSwap(context.Background(), createSwapRequest())
		require.ErrorIs(t, err, apperrors.ErrSwapNotConfirmed)
		require.Nil(t, out)
	})
}

func TestExecuteSwap_AfterBalanceReadFails(t *testing.T) {
	t.Parallel()

	f := newSwapFixture(t)
	f.expectPrelude()
	before := f.expectBalances(5*milliToken, 0)
	gomock.InOrder(
		before[0],
		before[1],
		f.tokens.EXPECT().BalanceOf(gomock.Any(), tokenA, owner).Return(nil, errors.New("rpc down")),
	)
	f.router.EXPECT().GetAmountsOut(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*big.Int{big.NewInt(milliToken), big.NewInt(2_000_000)}, nil)
	f.tokens.EXPECT().Approve(gomock.Any(), tokenA, routerAddr, gomock.Any()).Return(approveTx, nil)
	f.waiter.EXPECT().WaitMined(gomock.Any(), approveTx).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)
	f.router.EXPECT().SwapExactTokensForTokens(gomock.Any(), gomock.Any()).Return(swapTx, nil)
	f.waiter.EXPECT().WaitMined(gomock.Any(), swapTx).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(42)}, nil)

	out, err := f.svc.ExecuteSwap(context.Background(), createSwapRequest())
	require.NoError(t, err)
	require.True(t, out.Confirmed)
	require.Nil(t, out.After.TokenIn)
	require.NotNil(t, out.Before.TokenIn)
}
