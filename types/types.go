package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common"
)

// LiquidationOpportunity describes a single liquidation candidate: a
// borrower whose position is unhealthy, the debt asset to repay on their
// behalf, the collateral asset to seize, and the caller's bounds on
// repayment size and acceptable profit. It is supplied per call and never
// persisted.
type LiquidationOpportunity struct {
	Borrower        common.Address
	DebtAsset       common.Address
	CollateralAsset common.Address
	MaxDebtToRepay  *big.Int // debt-asset native units
	MinProfit       *big.Int // debt-asset native units
}

// Validate checks that the opportunity is well formed
func (o *LiquidationOpportunity) Validate() error {
	if o == nil {
		return errors.New("opportunity cannot be nil")
	}
	if o.Borrower == (common.Address{}) {
		return errors.New("borrower address not specified")
	}
	if o.DebtAsset == (common.Address{}) {
		return errors.New("debt asset not specified")
	}
	if o.CollateralAsset == (common.Address{}) {
		return errors.New("collateral asset not specified")
	}
	if o.DebtAsset == o.CollateralAsset {
		return errors.New("debt and collateral assets must differ")
	}
	if o.MaxDebtToRepay == nil || o.MaxDebtToRepay.Sign() <= 0 {
		return errors.New("max debt to repay must be positive")
	}
	if o.MinProfit == nil || o.MinProfit.Sign() < 0 {
		return errors.New("min profit must be non-negative")
	}
	return nil
}

// ID returns a short fingerprint of the (borrower, debt, collateral)
// tuple, used to correlate log lines and metrics across one attempt.
func (o *LiquidationOpportunity) ID() string {
	h := xxhash.New()
	h.Write(o.Borrower.Bytes())
	h.Write(o.DebtAsset.Bytes())
	h.Write(o.CollateralAsset.Bytes())
	return fmt.Sprintf("%016x", h.Sum64())
}

// LiquidationResult captures the measured outcome of a completed
// liquidation: what was seized, what the conversion returned, what the
// financing cost, and the residual profit paid to the caller.
type LiquidationResult struct {
	Opportunity   *LiquidationOpportunity
	SeizedAmount  *big.Int // collateral asset, measured by balance delta
	AmountOut     *big.Int // debt asset, measured by balance delta
	FinancingCost *big.Int // principal + fee
	Profit        *big.Int // AmountOut - FinancingCost
}
