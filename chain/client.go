package chain

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/michaelpento.lv/liquidator/config"
	"github.com/michaelpento.lv/liquidator/types"
	"github.com/michaelpento.lv/liquidator/utils/metrics"
)

// Client submits liquidations to the deployed executor contract. RPC
// traffic goes through a rate limiter and every submission is preflighted
// against the node before it is signed and sent.
type Client struct {
	eth         *ethclient.Client
	executor    common.Address
	auth        *bind.TransactOpts
	limiter     *rate.Limiter
	maxGasPrice *big.Int
	gasLimit    uint64
	logger      *zap.Logger
	metrics     *metrics.ChainMetrics
}

// NewClient dials the configured RPC endpoint and prepares a signing
// transactor for the executor at cfg.ExecutorAddress.
func NewClient(ctx context.Context, cfg *config.Config, privateKeyHex string, logger *zap.Logger, m *metrics.ChainMetrics) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC endpoint: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(cfg.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	return &Client{
		eth:         eth,
		executor:    cfg.ExecutorAddress,
		auth:        auth,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RPCRateLimit.RequestsPerSecond), cfg.RPCRateLimit.BurstSize),
		maxGasPrice: new(big.Int).Set(cfg.MaxGasPrice),
		gasLimit:    cfg.GasLimit,
		logger:      logger,
		metrics:     m,
	}, nil
}

// From returns the submitting account.
func (c *Client) From() common.Address {
	return c.auth.From
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// SubmitLiquidation packs, preflights, signs and sends a liquidate call
// for the opportunity, swapping through uniswapPool. The transaction is
// not sent when the preflight fails or the gas price ceiling is breached.
func (c *Client) SubmitLiquidation(ctx context.Context, opp *types.LiquidationOpportunity, uniswapPool common.Address) (*gethtypes.Transaction, error) {
	if err := opp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid opportunity: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		c.metrics.Errors.Inc()
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	if gasPrice.Cmp(c.maxGasPrice) > 0 {
		return nil, fmt.Errorf("gas price %s exceeds ceiling %s", gasPrice, c.maxGasPrice)
	}

	data, err := executorABI.Pack("liquidate",
		opp.Borrower, opp.DebtAsset, opp.CollateralAsset, opp.MaxDebtToRepay, uniswapPool)
	if err != nil {
		return nil, fmt.Errorf("failed to pack liquidate call: %w", err)
	}

	preflight := NewPreflight(c.eth)
	result, err := preflight.Simulate(ctx, c.auth.From, c.executor, data, c.gasLimit, gasPrice)
	if err != nil {
		c.metrics.Errors.Inc()
		return nil, fmt.Errorf("preflight failed: %w", err)
	}
	if !result.Success {
		c.metrics.Errors.Inc()
		if revert, ok := DecodeInsufficientProfit(result.RevertData); ok {
			return nil, revert
		}
		return nil, fmt.Errorf("preflight reverted: %w", result.Err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.auth.From)
	if err != nil {
		c.metrics.Errors.Inc()
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &c.executor,
		Gas:      c.gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := c.auth.Signer(c.auth.From, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	start := time.Now()
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		c.metrics.Errors.Inc()
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	c.metrics.Submissions.Inc()
	c.metrics.SubmitLatency.Observe(time.Since(start).Seconds())
	gasPriceFloat, _ := new(big.Float).SetInt(gasPrice).Float64()
	c.metrics.GasPrice.Observe(gasPriceFloat)

	c.logger.Info("Liquidation submitted",
		zap.String("tx", signed.Hash().Hex()),
		zap.String("opportunity", opp.ID()),
		zap.Uint64("gas_used_estimate", result.GasUsed),
		zap.String("gas_price", gasPrice.String()))
	return signed, nil
}

// SetWhitelistedCaller sends the owner-only whitelist mutation.
func (c *Client) SetWhitelistedCaller(ctx context.Context, caller common.Address, allowed bool) (*gethtypes.Transaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	data, err := executorABI.Pack("setWhitelistedCaller", caller, allowed)
	if err != nil {
		return nil, fmt.Errorf("failed to pack whitelist call: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	nonce, err := c.eth.PendingNonceAt(ctx, c.auth.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &c.executor,
		Gas:      100_000,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := c.auth.Signer(c.auth.From, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.logger.Info("Whitelist update submitted",
		zap.String("tx", signed.Hash().Hex()),
		zap.String("caller", caller.Hex()),
		zap.Bool("allowed", allowed))
	return signed, nil
}

// revertData pulls ABI-encoded revert bytes out of an RPC error, when the
// node attached any.
func revertData(err error) []byte {
	type dataError interface {
		ErrorData() interface{}
	}
	var de dataError
	if !errors.As(err, &de) {
		return nil
	}
	encoded, ok := de.ErrorData().(string)
	if !ok {
		return nil
	}
	raw, decodeErr := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
	if decodeErr != nil {
		return nil
	}
	return raw
}
