package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fleshka4/autoswap/internal/app"
	"github.com/fleshka4/autoswap/internal/config"
	"github.com/fleshka4/autoswap/internal/logger"
)

type rootOptions struct {
	configPath string
	amount     string
	interval   time.Duration
	once       bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "autoswap",
		Short: "Periodically swap a fixed amount of one token into another on a Uniswap V2 style router",
		Long: `autoswap reads a quote from the router, approves the input amount, submits
swapExactTokensForTokens with a slippage bound and a deadline, waits for the
receipt and reports balances before and after. It repeats on a fixed interval.

Required environment (or .env / config file):
  PRIVATE_KEY, RPC_URL, ROUTER_ADDRESS, TOKEN_A_ADDRESS, TOKEN_B_ADDRESS

Examples:
  autoswap
  autoswap --once --amount 0.01
  autoswap --config cfg/config.yaml --interval 5m`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts.once)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to a YAML config file (optional)")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "Amount of the input token to swap per cycle, in token units")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Time between swap cycles")
	cmd.Flags().BoolVar(&opts.once, "once", false, "Run a single swap cycle and exit")

	return cmd
}

func loadConfig(cmd *cobra.Command, opts rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "config.Load")
	}

	if cmd.Flags().Changed("amount") {
		cfg.Swap.Amount = opts.amount
	}
	if cmd.Flags().Changed("interval") {
		cfg.Swap.Interval = opts.interval
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(parent context.Context, cfg config.Config, once bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, closer := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	defer closer.Close()

	a, err := app.New(ctx, cfg, log, os.Stdout)
	if err != nil {
		return errors.Wrap(err, "app.New")
	}
	defer a.Close()

	if once {
		return a.RunOnce(ctx)
	}
	return a.Run(ctx)
}
