package validate

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/dexmath"
	"github.com/fleshka4/autoswap/internal/service/dto"
)

// SwapRequestValidate validates a swap request before any chain access.
func SwapRequestValidate(req dto.SwapRequest) error {
	var zeroAddress = common.Address{}

	if req.TokenIn == zeroAddress || req.TokenOut == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "token address cannot be empty")
	}

	if req.TokenIn == req.TokenOut {
		return errors.Wrap(apperrors.ErrInvalidArgument, "destination token cannot be the same as source token")
	}

	if strings.TrimSpace(req.AmountIn) == "" {
		return errors.Wrap(apperrors.ErrInvalidAmount, "amount cannot be empty")
	}

	if req.SlippageBps > dexmath.BpsDenominator {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "slippage %d bps exceeds %d", req.SlippageBps, dexmath.BpsDenominator)
	}

	if req.DeadlineOffset <= 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "deadline offset must be positive")
	}

	return nil
}
