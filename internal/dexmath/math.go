package dexmath

import (
	"math/big"
	"sync"
)

// BpsDenominator is the number of basis points in 100%.
const BpsDenominator = 10_000

var (
	bpsDen = big.NewInt(BpsDenominator)

	defaultMath = newMathService()
)

type mathTmp struct {
	a *big.Int
	b *big.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{
					a: new(big.Int),
					b: new(big.Int),
				}
			},
		},
	}
}

func (m *mathService) minOutputInto(out, quoted *big.Int, toleranceBps uint) bool {
	if out == nil {
		return false
	}
	// basic validation.
	if quoted == nil || quoted.Sign() < 0 || toleranceBps > BpsDenominator {
		out.SetInt64(0)
		return false
	}

	t := m.pool.Get().(*mathTmp)

	// keep := 10000 - toleranceBps.
	t.a.SetUint64(uint64(BpsDenominator - toleranceBps))

	// num := quoted * keep.
	t.b.Mul(quoted, t.a)

	// out = num / 10000, truncated toward zero.
	out.Quo(t.b, bpsDen)

	m.pool.Put(t)
	return true
}

// MinOutputInto computes the minimum acceptable swap output for a quoted
// output and a slippage tolerance in basis points:
//
//	out = quoted * (10000 - toleranceBps) / 10000
//
// Integer arithmetic only, so the result always satisfies 0 <= out <= quoted.
// Returns false and writes 0 when quoted is nil or negative or the tolerance
// exceeds 10000 bps. out must be non-nil.
func MinOutputInto(out, quoted *big.Int, toleranceBps uint) bool {
	return defaultMath.minOutputInto(out, quoted, toleranceBps)
}

// MinOutput is the allocating variant of MinOutputInto.
func MinOutput(quoted *big.Int, toleranceBps uint) (*big.Int, bool) {
	out := new(big.Int)
	ok := defaultMath.minOutputInto(out, quoted, toleranceBps)
	return out, ok
}
