package config

import (
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/dexmath"
	"github.com/fleshka4/autoswap/internal/units"
)

// Config holds application configuration loaded from an optional YAML file
// and the process environment.
type Config struct {
	RPCURL        string `yaml:"rpc_url"`
	PrivateKey    string `yaml:"private_key"`
	RouterAddress string `yaml:"router_address"`
	TokenA        string `yaml:"token_a_address"`
	TokenB        string `yaml:"token_b_address"`

	Swap     SwapConfig     `yaml:"swap"`
	Approval ApprovalConfig `yaml:"approval"`
	Gas      GasConfig      `yaml:"gas"`
	Chain    ChainConfig    `yaml:"chain"`
	Log      LogConfig      `yaml:"log"`
	Status   StatusConfig   `yaml:"status"`
}

type SwapConfig struct {
	Amount      string        `yaml:"amount"`
	SlippageBps uint          `yaml:"slippage_bps"`
	Deadline    time.Duration `yaml:"deadline"`
	Interval    time.Duration `yaml:"interval"`
}

type ApprovalConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
}

// GasConfig sets swap transaction pricing. A zero Limit means estimate with a
// buffer; an empty PriceGwei means ask the node.
type GasConfig struct {
	Limit     uint64 `yaml:"limit"`
	PriceGwei string `yaml:"price_gwei"`
}

type ChainConfig struct {
	CallTimeout    time.Duration `yaml:"call_timeout"`
	ReceiptPoll    time.Duration `yaml:"receipt_poll"`
	ReceiptTimeout time.Duration `yaml:"receipt_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// StatusConfig controls the optional status server. It is disabled while
// ListenAddr is empty.
type StatusConfig struct {
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

const (
	DefaultAmount         = "0.001"
	DefaultSlippageBps    = 500
	DefaultDeadline       = 10 * time.Minute
	DefaultInterval       = 10 * time.Minute
	DefaultMaxAttempts    = 5
	DefaultRetryDelay     = 2 * time.Second
	DefaultCallTimeout    = 15 * time.Second
	DefaultReceiptPoll    = 2 * time.Second
	DefaultReceiptTimeout = 10 * time.Minute
	DefaultGraceTimeout   = 5 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"

	gweiDecimals = 9
)

// Load reads the YAML file at path when path is not empty, overlays the
// environment and fills defaults. The result is not validated.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrap(apperrors.ErrConfiguration, err.Error())
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, errors.Wrap(apperrors.ErrConfiguration, err.Error())
	}

	cfg.setDefaults()

	return cfg, nil
}

func decodeFile(path string, cfg *Config) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "os.Open")
	}
	defer func(f *os.File) {
		err = multierr.Append(err, errors.Wrap(f.Close(), "f.Close"))
	}(f)

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return errors.Wrap(err, "decoder.Decode")
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	var errs error
	parse := func(key string, set func(string) error) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		if err := set(strings.TrimSpace(v)); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "%s", key))
		}
	}

	str("PRIVATE_KEY", &cfg.PrivateKey)
	str("RPC_URL", &cfg.RPCURL)
	str("ROUTER_ADDRESS", &cfg.RouterAddress)
	str("TOKEN_A_ADDRESS", &cfg.TokenA)
	str("TOKEN_B_ADDRESS", &cfg.TokenB)
	str("SWAP_AMOUNT", &cfg.Swap.Amount)
	str("GAS_PRICE_GWEI", &cfg.Gas.PriceGwei)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_FILE", &cfg.Log.File)
	str("STATUS_ADDR", &cfg.Status.ListenAddr)

	parse("SLIPPAGE_BPS", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		cfg.Swap.SlippageBps = uint(n)
		return err
	})
	parse("SWAP_INTERVAL", func(v string) error {
		d, err := time.ParseDuration(v)
		cfg.Swap.Interval = d
		return err
	})
	parse("GAS_LIMIT", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		cfg.Gas.Limit = n
		return err
	})

	return errs
}

func (c *Config) setDefaults() {
	if c.Swap.Amount == "" {
		c.Swap.Amount = DefaultAmount
	}
	if c.Swap.SlippageBps == 0 {
		c.Swap.SlippageBps = DefaultSlippageBps
	}
	if c.Swap.Deadline == 0 {
		c.Swap.Deadline = DefaultDeadline
	}
	if c.Swap.Interval == 0 {
		c.Swap.Interval = DefaultInterval
	}
	if c.Approval.MaxAttempts == 0 {
		c.Approval.MaxAttempts = DefaultMaxAttempts
	}
	if c.Approval.RetryDelay == 0 {
		c.Approval.RetryDelay = DefaultRetryDelay
	}
	if c.Chain.CallTimeout == 0 {
		c.Chain.CallTimeout = DefaultCallTimeout
	}
	if c.Chain.ReceiptPoll == 0 {
		c.Chain.ReceiptPoll = DefaultReceiptPoll
	}
	if c.Chain.ReceiptTimeout == 0 {
		c.Chain.ReceiptTimeout = DefaultReceiptTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Status.GraceTimeout == 0 {
		c.Status.GraceTimeout = DefaultGraceTimeout
	}
	if c.Status.ReadHeaderTimeout == 0 {
		c.Status.ReadHeaderTimeout = DefaultGraceTimeout
	}
}

// Validate reports every problem at once, wrapped in ErrConfiguration.
func (c Config) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, errors.Errorf(format, args...))
	}

	if c.RPCURL == "" {
		fail("RPC_URL is required")
	}
	if c.PrivateKey == "" {
		fail("PRIVATE_KEY is required")
	} else if !isHexKey(c.PrivateKey) {
		fail("PRIVATE_KEY must be 32 bytes of hex")
	}

	addrs := []struct {
		name  string
		value string
	}{
		{"ROUTER_ADDRESS", c.RouterAddress},
		{"TOKEN_A_ADDRESS", c.TokenA},
		{"TOKEN_B_ADDRESS", c.TokenB},
	}
	for _, a := range addrs {
		switch {
		case a.value == "":
			fail("%s is required", a.name)
		case !common.IsHexAddress(a.value):
			fail("%s is not an address: %q", a.name, a.value)
		}
	}
	if c.TokenA != "" && strings.EqualFold(c.TokenA, c.TokenB) {
		fail("TOKEN_A_ADDRESS and TOKEN_B_ADDRESS must differ")
	}

	if _, err := units.ToFixedPoint(c.Swap.Amount, 18); err != nil {
		fail("swap amount %q: %v", c.Swap.Amount, err)
	}
	if c.Swap.SlippageBps > dexmath.BpsDenominator {
		fail("slippage %d bps exceeds %d", c.Swap.SlippageBps, dexmath.BpsDenominator)
	}
	if c.Swap.Deadline <= 0 {
		fail("swap deadline must be positive")
	}
	if c.Swap.Interval <= 0 {
		fail("swap interval must be positive")
	}
	if c.Approval.MaxAttempts < 1 {
		fail("approval max_attempts must be at least 1")
	}
	if c.Approval.RetryDelay < 0 {
		fail("approval retry_delay cannot be negative")
	}
	if _, err := c.GasPriceWei(); err != nil {
		fail("gas price: %v", err)
	}
	if c.Chain.CallTimeout <= 0 || c.Chain.ReceiptPoll <= 0 || c.Chain.ReceiptTimeout <= 0 {
		fail("chain timeouts must be positive")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		fail("log format %q is not text or json", c.Log.Format)
	}

	if errs != nil {
		return errors.Wrap(apperrors.ErrConfiguration, errs.Error())
	}
	return nil
}

// GasPriceWei converts the configured gwei price to wei. It returns nil when
// no price is configured.
func (c Config) GasPriceWei() (*big.Int, error) {
	if c.Gas.PriceGwei == "" {
		return nil, nil
	}
	wei, err := units.ToFixedPoint(c.Gas.PriceGwei, gweiDecimals)
	if err != nil {
		return nil, errors.Wrap(err, "units.ToFixedPoint")
	}
	if wei.Sign() == 0 {
		return nil, errors.New("gas price must be positive")
	}
	return wei, nil
}

func isHexKey(key string) bool {
	key = strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	if len(key) != 64 {
		return false
	}
	for _, r := range key {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
