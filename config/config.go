package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type Config struct {
	// Chain and network settings
	ChainID     uint64 `json:"chain_id"`
	RPCEndpoint string `json:"rpc_endpoint"`
	WSEndpoint  string `json:"ws_endpoint"`

	// Deployed executor contract
	ExecutorAddress common.Address `json:"executor_address"`

	// Execution thresholds
	MinProfitThreshold *big.Int `json:"min_profit_threshold"`
	MaxGasPrice        *big.Int `json:"max_gas_price"`
	GasLimit           uint64   `json:"gas_limit"`

	// Simulated venue parameters, used by the simulate command
	FlashLoanFeeBps         uint16 `json:"flash_loan_fee_bps"`
	LiquidationThresholdBps uint16 `json:"liquidation_threshold_bps"`
	CloseFactorBps          uint16 `json:"close_factor_bps"`
	LiquidationBonusBps     uint16 `json:"liquidation_bonus_bps"`

	// Network settings
	NetworkTimeout time.Duration   `json:"network_timeout"`
	RPCRateLimit   RateLimitConfig `json:"rpc_rate_limit"`

	// Asset registry file, resolved by the assets loader
	AssetsFile string `json:"assets_file"`

	// Internal components
	Logger *zap.Logger `json:"-"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `json:"requests_per_second"`
	BurstSize         int           `json:"burst_size"`
	WaitTimeout       time.Duration `json:"wait_timeout"`
}

func (c *Config) ValidateConfig() error {
	var errors []string

	if c.ChainID == 0 {
		errors = append(errors, "chain_id must be specified")
	}
	if c.RPCEndpoint == "" {
		errors = append(errors, "rpc_endpoint must be specified")
	}
	if c.ExecutorAddress == (common.Address{}) {
		errors = append(errors, "executor_address must be specified")
	}
	if c.MinProfitThreshold == nil || c.MinProfitThreshold.Sign() < 0 {
		errors = append(errors, "min_profit_threshold must be non-negative")
	}
	if c.MaxGasPrice == nil || c.MaxGasPrice.Sign() <= 0 {
		errors = append(errors, "max_gas_price must be positive")
	}
	if c.GasLimit == 0 {
		errors = append(errors, "gas_limit must be specified")
	}
	if c.LiquidationThresholdBps == 0 || c.LiquidationThresholdBps > 10000 {
		errors = append(errors, "liquidation_threshold_bps must be in (0, 10000]")
	}
	if c.CloseFactorBps == 0 || c.CloseFactorBps > 10000 {
		errors = append(errors, "close_factor_bps must be in (0, 10000]")
	}
	if c.LiquidationBonusBps > 10000 {
		errors = append(errors, "liquidation_bonus_bps must not exceed 10000")
	}

	if err := c.RPCRateLimit.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("RPC rate limit error: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (r *RateLimitConfig) Validate() error {
	if r.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive")
	}
	if r.BurstSize <= 0 {
		return fmt.Errorf("burst size must be positive")
	}
	if r.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}

	return nil
}

func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".liquidator.json")
	}

	file, err := os.Open(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := config.ValidateConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func SaveConfig(cfg *Config, cfgFile string) error {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		cfgFile = filepath.Join(home, ".liquidator.json")
	}

	file, err := os.Create(cfgFile)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	return encoder.Encode(cfg)
}

func DefaultConfig() *Config {
	return &Config{
		Logger:                  zap.NewNop(),
		ChainID:                 42161, // Arbitrum One
		RPCEndpoint:             "http://localhost:8545",
		WSEndpoint:              "ws://localhost:8546",
		MinProfitThreshold:      big.NewInt(100000000000000000), // 0.1 in 18-decimal units
		MaxGasPrice:             big.NewInt(500000000000),       // 500 Gwei
		GasLimit:                2_000_000,
		FlashLoanFeeBps:         5,
		LiquidationThresholdBps: 9500,
		CloseFactorBps:          10000,
		LiquidationBonusBps:     500,
		NetworkTimeout:          5 * time.Second,
		RPCRateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			BurstSize:         100,
			WaitTimeout:       time.Second,
		},
	}
}
