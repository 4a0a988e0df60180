package report

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/service/dto"
)

func init() {
	color.NoColor = true
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewPrinter(&buf).Outcome("cycle-1", &dto.SwapOutcome{
		TxHash:           common.HexToHash("0xabc"),
		Confirmed:        true,
		DecimalsIn:       18,
		DecimalsOut:      6,
		AmountIn:         big.NewInt(1_000_000_000_000_000),
		QuotedOut:        big.NewInt(2_000_000),
		MinOut:           big.NewInt(1_900_000),
		ApprovalAttempts: 1,
		BlockNumber:      big.NewInt(42),
		Before:           dto.Balances{TokenIn: big.NewInt(5_000_000_000_000_000), TokenOut: big.NewInt(0)},
	})

	out := buf.String()
	require.Contains(t, out, "SWAP CONFIRMED")
	require.Contains(t, out, "cycle-1")
	require.Contains(t, out, common.HexToHash("0xabc").Hex())
	require.Contains(t, out, "Amount In:         0.001")
	require.Contains(t, out, "Minimum Out:       1.9")
	require.Contains(t, out, "Balance In:        0.005 -> unknown")
	require.NotContains(t, out, "\x1b[")
}

func TestOutcomeNil(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewPrinter(&buf).Outcome("cycle-1", nil)
	require.Empty(t, buf.String())
}

func TestFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Failure("cycle-2", nil)
	require.Empty(t, buf.String())

	p.Failure("cycle-2", errors.Wrap(apperrors.ErrQuoteUnavailable, "router returned 1 amounts"))
	require.Contains(t, buf.String(), "cycle-2")
	require.Contains(t, buf.String(), "[quote_unavailable]")
}
