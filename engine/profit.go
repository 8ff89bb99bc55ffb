package engine

import (
	"fmt"
	"math/big"
)

// InsufficientProfitError carries both the observed and required profit
// so the calling system can log the shortfall and resize the opportunity.
type InsufficientProfitError struct {
	Profit   *big.Int
	Required *big.Int
}

func (e *InsufficientProfitError) Error() string {
	return fmt.Sprintf("insufficient profit: %s < %s required", e.Profit, e.Required)
}

// CheckProfit computes net profit as amountOut minus the financing cost
// and enforces the caller's minimum. This is the final gate: profit is
// net of the loan fee, never gross.
func CheckProfit(amountOut, financingCost, minProfit *big.Int) (*big.Int, error) {
	profit := new(big.Int).Sub(amountOut, financingCost)
	if profit.Cmp(minProfit) < 0 {
		return nil, &InsufficientProfitError{
			Profit:   profit,
			Required: new(big.Int).Set(minProfit),
		}
	}
	return profit, nil
}
