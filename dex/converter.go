package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/ledger"
)

// Converter turns seized collateral back into the debt asset through a
// Router. The minimum acceptable output is supplied by the caller (loan
// repayment plus required profit), so the converter never accepts an
// outcome that cannot cover settlement. Both legs are measured by balance
// delta; the router's reported output is not trusted.
type Converter struct {
	router  Router
	led     *ledger.Ledger
	account common.Address
	logger  *zap.Logger
}

// NewConverter creates a converter swapping from account.
func NewConverter(router Router, led *ledger.Ledger, account common.Address, logger *zap.Logger) *Converter {
	return &Converter{
		router:  router,
		led:     led,
		account: account,
		logger:  logger,
	}
}

// Convert swaps amountIn of collateralAsset into at least minAmountOut of
// debtAsset and returns the measured amount received.
func (c *Converter) Convert(ctx context.Context, collateralAsset common.Address, amountIn *big.Int, debtAsset common.Address, minAmountOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("invalid conversion input amount")
	}

	before := c.led.BalanceOf(debtAsset, c.account)

	reported, err := c.router.SwapExactTokensForTokens(ctx, amountIn, minAmountOut,
		[]common.Address{collateralAsset, debtAsset}, c.account)
	if err != nil {
		if errors.Is(err, ErrSlippageExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("swap failed: %w", err)
	}

	after := c.led.BalanceOf(debtAsset, c.account)
	received := new(big.Int).Sub(after, before)
	if received.Cmp(reported) != 0 {
		c.logger.Warn("Router misreported swap output",
			zap.String("reported", reported.String()),
			zap.String("received", received.String()))
	}
	if minAmountOut != nil && received.Cmp(minAmountOut) < 0 {
		return nil, fmt.Errorf("%w: received %s below minimum %s", ErrSlippageExceeded, received, minAmountOut)
	}

	c.logger.Debug("Collateral converted",
		zap.String("amount_in", amountIn.String()),
		zap.String("received", received.String()))
	return received, nil
}
