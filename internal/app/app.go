package app

import (
	"context"
	"io"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/config"
	"github.com/fleshka4/autoswap/internal/infra/evm"
	"github.com/fleshka4/autoswap/internal/metrics"
	"github.com/fleshka4/autoswap/internal/report"
	"github.com/fleshka4/autoswap/internal/scheduler"
	"github.com/fleshka4/autoswap/internal/service"
	"github.com/fleshka4/autoswap/internal/service/dto"
	"github.com/fleshka4/autoswap/internal/status"
	transport "github.com/fleshka4/autoswap/internal/transport/http"
)

// App is the assembled swap loop.
type App struct {
	cfg       config.Config
	runner    *CycleRunner
	scheduler *scheduler.Scheduler
	server    *transport.Server
	logger    *slog.Logger
	closeFn   func()
}

// New connects to the chain and assembles the swap loop from cfg, which must
// already be validated. Reports are printed to console when it is not nil.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, console io.Writer) (*App, error) {
	client, chainID, err := evm.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "evm.Dial")
	}

	swapper, owner, err := newSwapper(client, chainID, cfg, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("swap account ready",
		slog.String("address", owner.Hex()),
		slog.String("chain_id", chainID.String()),
		slog.String("router", cfg.RouterAddress),
	)

	a, err := newApp(cfg, swapper, logger, console)
	if err != nil {
		client.Close()
		return nil, err
	}
	a.closeFn = client.Close

	return a, nil
}

func newSwapper(backend evm.Backend, chainID *big.Int, cfg config.Config, logger *slog.Logger) (service.Swapper, common.Address, error) {
	signer, err := evm.NewSigner(cfg.PrivateKey, chainID)
	if err != nil {
		return nil, common.Address{}, errors.Wrapf(apperrors.ErrConfiguration, "evm.NewSigner: %v", err)
	}

	gasPrice, err := cfg.GasPriceWei()
	if err != nil {
		return nil, common.Address{}, errors.Wrapf(apperrors.ErrConfiguration, "cfg.GasPriceWei: %v", err)
	}

	tx := evm.NewTransactor(backend, signer, evm.GasConfig{
		Price:         gasPrice,
		BufferPercent: evm.DefaultGasBufferPercent,
	})

	tokens, err := evm.NewTokenClient(backend, tx, cfg.Chain.CallTimeout)
	if err != nil {
		return nil, common.Address{}, errors.Wrap(err, "evm.NewTokenClient")
	}
	router, err := evm.NewRouterClient(backend, tx, common.HexToAddress(cfg.RouterAddress), cfg.Gas.Limit, cfg.Chain.CallTimeout)
	if err != nil {
		return nil, common.Address{}, errors.Wrap(err, "evm.NewRouterClient")
	}
	waiter := evm.NewReceiptWaiter(backend, cfg.Chain.ReceiptPoll, cfg.Chain.ReceiptTimeout)

	swapper := service.NewSwapService(tokens, router, waiter, signer.Address(),
		service.ApprovalConfig{
			MaxAttempts: cfg.Approval.MaxAttempts,
			RetryDelay:  cfg.Approval.RetryDelay,
		},
		service.WithLogger(logger),
	)

	return swapper, signer.Address(), nil
}

func newApp(cfg config.Config, swapper service.Swapper, logger *slog.Logger, console io.Writer) (*App, error) {
	recorder := metrics.NewRecorder()
	store := status.NewStore()

	var printer *report.Printer
	if console != nil {
		printer = report.NewPrinter(console)
	}

	req := dto.SwapRequest{
		TokenIn:        common.HexToAddress(cfg.TokenA),
		TokenOut:       common.HexToAddress(cfg.TokenB),
		AmountIn:       cfg.Swap.Amount,
		SlippageBps:    cfg.Swap.SlippageBps,
		DeadlineOffset: cfg.Swap.Deadline,
	}

	sched, err := scheduler.New(cfg.Swap.Interval, scheduler.WithLogger(logger))
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrConfiguration, "scheduler.New: %v", err)
	}

	a := &App{
		cfg:       cfg,
		runner:    NewCycleRunner(swapper, req, recorder, store, printer, logger),
		scheduler: sched,
		logger:    logger,
		closeFn:   func() {},
	}

	if cfg.Status.ListenAddr != "" {
		a.server, err = transport.NewServer(store, recorder.Handler(), &cfg, logger)
		if err != nil {
			return nil, errors.Wrap(err, "transport.NewServer")
		}
	}

	return a, nil
}

// RunOnce performs a single swap cycle and returns its error.
func (a *App) RunOnce(ctx context.Context) error {
	return a.runner.RunCycle(ctx)
}

// Run drives the scheduler and the optional status server until ctx is
// cancelled. Cycle failures do not stop it; a status server failure does.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error {
			return a.server.ListenAndServe(gctx, a.cfg.Status.ListenAddr)
		})
	}

	g.Go(func() error {
		a.logger.Info("swap loop started", slog.Duration("interval", a.cfg.Swap.Interval))
		return a.scheduler.Run(gctx, a.runner.RunCycle)
	})

	err := g.Wait()
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		a.logger.Info("swap loop stopped")
		return nil
	}
	return err
}

// Close releases the chain connection.
func (a *App) Close() {
	a.closeFn()
}
