package service

import (
	"context"

	"github.com/fleshka4/autoswap/internal/service/dto"
)

// Swapper represents interface for the swap business logic.
type Swapper interface {
	ExecuteSwap(ctx context.Context, req dto.SwapRequest) (*dto.SwapOutcome, error)
}
