package dto

import (
	"time"

	"github.com/fleshka4/autoswap/internal/status"
	"github.com/fleshka4/autoswap/internal/units"
)

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Cycles        uint64       `json:"cycles"`
	Failures      uint64       `json:"failures"`
	LastSuccessAt *time.Time   `json:"last_success_at,omitempty"`
	Last          *CycleStatus `json:"last_cycle,omitempty"`
}

// CycleStatus is the last cycle in human-readable units.
type CycleStatus struct {
	CycleID    string    `json:"cycle_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Result     string    `json:"result"`
	Error      string    `json:"error,omitempty"`
	Swap       *SwapView `json:"swap,omitempty"`
}

// SwapView is a confirmed swap as shown to operators.
type SwapView struct {
	TxHash           string        `json:"tx_hash"`
	TokenIn          string        `json:"token_in"`
	TokenOut         string        `json:"token_out"`
	AmountIn         string        `json:"amount_in"`
	QuotedOut        string        `json:"quoted_out"`
	MinOut           string        `json:"min_out"`
	ApprovalAttempts int           `json:"approval_attempts"`
	BlockNumber      string        `json:"block_number,omitempty"`
	GasUsed          uint64        `json:"gas_used"`
	Before           *BalancesView `json:"balances_before,omitempty"`
	After            *BalancesView `json:"balances_after,omitempty"`
}

type BalancesView struct {
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
}

// NewStatusResponse converts a store snapshot.
func NewStatusResponse(snap status.Snapshot) StatusResponse {
	resp := StatusResponse{
		Cycles:   snap.Cycles,
		Failures: snap.Failures,
	}
	if !snap.LastSuccessAt.IsZero() {
		at := snap.LastSuccessAt
		resp.LastSuccessAt = &at
	}
	if snap.Last == nil {
		return resp
	}

	last := snap.Last
	resp.Last = &CycleStatus{
		CycleID:    last.CycleID,
		StartedAt:  last.StartedAt,
		FinishedAt: last.FinishedAt,
		Result:     last.Result,
		Error:      last.Error,
	}

	o := last.Outcome
	if o == nil {
		return resp
	}
	view := &SwapView{
		TxHash:           o.TxHash.Hex(),
		TokenIn:          o.TokenIn.Hex(),
		TokenOut:         o.TokenOut.Hex(),
		AmountIn:         units.ToHuman(o.AmountIn, o.DecimalsIn),
		QuotedOut:        units.ToHuman(o.QuotedOut, o.DecimalsOut),
		MinOut:           units.ToHuman(o.MinOut, o.DecimalsOut),
		ApprovalAttempts: o.ApprovalAttempts,
		GasUsed:          o.GasUsed,
	}
	if o.BlockNumber != nil {
		view.BlockNumber = o.BlockNumber.String()
	}
	if o.Before.TokenIn != nil && o.Before.TokenOut != nil {
		view.Before = &BalancesView{
			TokenIn:  units.ToHuman(o.Before.TokenIn, o.DecimalsIn),
			TokenOut: units.ToHuman(o.Before.TokenOut, o.DecimalsOut),
		}
	}
	if o.After.TokenIn != nil && o.After.TokenOut != nil {
		view.After = &BalancesView{
			TokenIn:  units.ToHuman(o.After.TokenIn, o.DecimalsIn),
			TokenOut: units.ToHuman(o.After.TokenOut, o.DecimalsOut),
		}
	}
	resp.Last.Swap = view

	return resp
}
