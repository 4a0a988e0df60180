package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/infra/evm"
	"github.com/fleshka4/autoswap/internal/service/dto"
)

// QuoteService reads swap pricing from the router.
type QuoteService struct {
	router evm.RouterClient
}

// NewQuoteService creates QuoteService.
func NewQuoteService(router evm.RouterClient) *QuoteService {
	return &QuoteService{router: router}
}

// GetQuote asks the router what amountIn yields along path. The result is
// used immediately and never retried: a stale quote is worse than none.
func (s *QuoteService) GetQuote(ctx context.Context, path []common.Address, amountIn *big.Int) (dto.Quote, error) {
	const minPathLen = 2
	if len(path) < minPathLen {
		return dto.Quote{}, errors.Wrapf(apperrors.ErrInvalidArgument, "path of %d tokens", len(path))
	}

	amounts, err := s.router.GetAmountsOut(ctx, amountIn, path)
	if err != nil {
		return dto.Quote{}, errors.Wrapf(apperrors.ErrQuoteUnavailable, "s.router.GetAmountsOut: %v", err)
	}

	if len(amounts) < minPathLen || len(amounts) != len(path) {
		return dto.Quote{}, errors.Wrapf(apperrors.ErrQuoteUnavailable, "router returned %d amounts for a path of %d", len(amounts), len(path))
	}
	for i, a := range amounts {
		if a == nil {
			return dto.Quote{}, errors.Wrapf(apperrors.ErrQuoteUnavailable, "amount %d is empty", i)
		}
	}

	out := amounts[len(amounts)-1]
	if out.Sign() <= 0 {
		return dto.Quote{}, errors.Wrapf(apperrors.ErrQuoteUnavailable, "non-positive output %s", out)
	}

	return dto.Quote{
		AmountIn:  new(big.Int).Set(amounts[0]),
		AmountOut: new(big.Int).Set(out),
	}, nil
}
