package report

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/fatih/color"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/service/dto"
	"github.com/fleshka4/autoswap/internal/units"
)

const ruleWidth = 60

// Printer writes human-readable cycle reports to a console.
type Printer struct {
	out io.Writer

	title *color.Color
	value *color.Color
	muted *color.Color
	fail  *color.Color
}

// NewPrinter creates Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:   out,
		title: color.New(color.FgGreen),
		value: color.New(color.FgCyan),
		muted: color.New(color.FgHiBlack),
		fail:  color.New(color.FgRed),
	}
}

// Outcome prints a confirmed swap with balances before and after it.
func (p *Printer) Outcome(cycleID string, o *dto.SwapOutcome) {
	if o == nil {
		return
	}

	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(p.out, "\n"+rule)
	p.title.Fprintln(p.out, "                       SWAP CONFIRMED")
	fmt.Fprintln(p.out, rule)

	fmt.Fprintf(p.out, "\n  Cycle:             %s\n", p.muted.Sprint(cycleID))
	fmt.Fprintf(p.out, "  Swap Tx:           %s\n", p.value.Sprint(o.TxHash.Hex()))
	if o.BlockNumber != nil {
		fmt.Fprintf(p.out, "  Block:             %s\n", o.BlockNumber)
	}
	fmt.Fprintf(p.out, "  Amount In:         %s %s\n", units.ToHuman(o.AmountIn, o.DecimalsIn), p.muted.Sprint(o.TokenIn.Hex()))
	fmt.Fprintf(p.out, "  Quoted Out:        %s\n", units.ToHuman(o.QuotedOut, o.DecimalsOut))
	fmt.Fprintf(p.out, "  Minimum Out:       %s\n", units.ToHuman(o.MinOut, o.DecimalsOut))
	fmt.Fprintf(p.out, "  Approval Attempts: %d\n", o.ApprovalAttempts)

	fmt.Fprintf(p.out, "\n  Balance In:        %s -> %s\n",
		balance(o.Before.TokenIn, o.DecimalsIn), balance(o.After.TokenIn, o.DecimalsIn))
	fmt.Fprintf(p.out, "  Balance Out:       %s -> %s\n",
		balance(o.Before.TokenOut, o.DecimalsOut), balance(o.After.TokenOut, o.DecimalsOut))

	fmt.Fprintln(p.out, "\n"+rule)
}

// Failure prints a failed cycle with its error kind.
func (p *Printer) Failure(cycleID string, err error) {
	if err == nil {
		return
	}
	p.fail.Fprintf(p.out, "\nSwap cycle %s failed [%s]: %v\n", cycleID, apperrors.Kind(err), err)
}

func balance(v *big.Int, decimals uint8) string {
	if v == nil {
		return "unknown"
	}
	return units.ToHuman(v, decimals)
}
