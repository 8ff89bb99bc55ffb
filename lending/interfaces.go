package lending

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Pool is the lending protocol's liquidation entry point. Implementations
// enforce their own liquidatability rules; callers only learn about a
// rejection through the returned error.
type Pool interface {
	// LiquidationCall repays debtToCover of the borrower's debt from the
	// liquidator's balance and releases the corresponding discounted
	// collateral to the liquidator.
	LiquidationCall(ctx context.Context, collateralAsset, debtAsset, borrower common.Address, debtToCover *big.Int, liquidator common.Address) error

	// HealthFactor reports the borrower's health at 1e18 scale. Below
	// 1e18 the position is liquidatable. nil means the borrower has no
	// debt.
	HealthFactor(borrower common.Address) *big.Int
}

// RejectedError wraps a protocol-side refusal to liquidate: the borrower
// may have recovered, the amount may exceed the close factor, or the
// position may not exist. Recoverable only by resubmitting with updated
// parameters.
type RejectedError struct {
	Reason error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("liquidation rejected: %v", e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}
