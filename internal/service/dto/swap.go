package dto

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SwapRequest describes one swap of a human-readable amount of TokenIn into
// TokenOut.
type SwapRequest struct {
	TokenIn        common.Address
	TokenOut       common.Address
	AmountIn       string
	SlippageBps    uint
	DeadlineOffset time.Duration
}

// Quote is the router's pricing of AmountIn at the moment it was read.
type Quote struct {
	AmountIn  *big.Int
	AmountOut *big.Int
}

// Balances is a snapshot of the signer's balances of both swap tokens.
type Balances struct {
	TokenIn  *big.Int
	TokenOut *big.Int
}

// SwapOutcome is the result of a completed swap attempt.
type SwapOutcome struct {
	TxHash    common.Hash
	Confirmed bool

	TokenIn     common.Address
	TokenOut    common.Address
	DecimalsIn  uint8
	DecimalsOut uint8

	AmountIn  *big.Int
	QuotedOut *big.Int
	MinOut    *big.Int
	Deadline  time.Time

	ApprovalTx       common.Hash
	ApprovalAttempts int

	BlockNumber *big.Int
	GasUsed     uint64

	Before Balances
	After  Balances
}
