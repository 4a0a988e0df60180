package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/metrics"
	"github.com/fleshka4/autoswap/internal/report"
	"github.com/fleshka4/autoswap/internal/service"
	"github.com/fleshka4/autoswap/internal/service/dto"
	"github.com/fleshka4/autoswap/internal/status"
)

// CycleRunner performs one swap per call and reports it everywhere.
type CycleRunner struct {
	swapper service.Swapper
	req     dto.SwapRequest

	metrics *metrics.Recorder
	store   *status.Store
	printer *report.Printer
	logger  *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewCycleRunner creates CycleRunner. metrics, store and printer may be nil.
func NewCycleRunner(
	swapper service.Swapper,
	req dto.SwapRequest,
	recorder *metrics.Recorder,
	store *status.Store,
	printer *report.Printer,
	logger *slog.Logger,
) *CycleRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CycleRunner{
		swapper: swapper,
		req:     req,
		metrics: recorder,
		store:   store,
		printer: printer,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// RunCycle executes one swap. The returned error is the swap error, already
// logged and recorded.
func (r *CycleRunner) RunCycle(ctx context.Context) error {
	id := r.newID()
	log := r.logger.With(slog.String("cycle_id", id))
	started := r.now()

	log.InfoContext(ctx, "swap cycle started",
		slog.String("token_in", r.req.TokenIn.Hex()),
		slog.String("token_out", r.req.TokenOut.Hex()),
		slog.String("amount", r.req.AmountIn),
	)

	outcome, err := r.swapper.ExecuteSwap(ctx, r.req)
	finished := r.now()
	kind := apperrors.Kind(err)

	r.metrics.ObserveCycle(kind, finished.Sub(started))

	rep := status.Report{
		CycleID:    id,
		StartedAt:  started,
		FinishedAt: finished,
		Result:     kind,
		Outcome:    outcome,
	}

	if err != nil {
		rep.Error = err.Error()
		log.ErrorContext(ctx, "swap cycle failed", slog.String("kind", kind), slog.Any("error", err))
		if r.printer != nil {
			r.printer.Failure(id, err)
		}
	} else {
		log.InfoContext(ctx, "swap cycle confirmed",
			slog.String("tx", outcome.TxHash.Hex()),
			slog.Int("approval_attempts", outcome.ApprovalAttempts),
			slog.Uint64("gas_used", outcome.GasUsed),
			slog.Duration("took", finished.Sub(started)),
		)
		r.metrics.ObserveSwap(finished, outcome.ApprovalAttempts, outcome.GasUsed)
		if r.printer != nil {
			r.printer.Outcome(id, outcome)
		}
	}

	if r.store != nil {
		r.store.Record(rep)
	}

	return err
}
