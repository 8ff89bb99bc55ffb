// Package math provides big.Int helpers shared by the venue and engine
// packages. All basis-point arithmetic rounds down, matching the
// truncating division of the on-chain protocols being modelled.
package math

import "math/big"

const (
	// BpsDenominator is the basis-point scale (1 bps = 0.01%).
	BpsDenominator = 10000

	// HealthPrecision is the fixed-point scale for health factors.
	HealthPrecision = 1e18
)

// MulBps returns amount * bps / 10000, rounding down.
func MulBps(amount *big.Int, bps uint16) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return out.Div(out, big.NewInt(BpsDenominator))
}

// MulDiv returns amount * num / den, rounding down. den must be non-zero.
func MulDiv(amount, num, den *big.Int) *big.Int {
	out := new(big.Int).Mul(amount, num)
	return out.Div(out, den)
}

// FlashLoanFee returns the fee owed on a loan of the given principal at
// feeBps basis points.
func FlashLoanFee(principal *big.Int, feeBps uint16) *big.Int {
	return MulBps(principal, feeBps)
}

// SeizableCollateral converts a repaid debt amount into the collateral
// amount released by the protocol: debt value repriced into collateral
// units, grossed up by the liquidation bonus. Prices are quoted in a
// common reference unit at HealthPrecision scale.
func SeizableCollateral(debtToCover, debtPrice, collateralPrice *big.Int, bonusBps uint16) *big.Int {
	base := MulDiv(debtToCover, debtPrice, collateralPrice)
	bonus := MulBps(base, bonusBps)
	return base.Add(base, bonus)
}

// HealthFactor returns collateralValue * liquidationThreshold /
// debtValue at HealthPrecision scale. A result below HealthPrecision
// means the position is liquidatable. Returns nil when debtValue is zero
// (no debt, position cannot be liquidated).
func HealthFactor(collateralValue, debtValue *big.Int, thresholdBps uint16) *big.Int {
	if debtValue == nil || debtValue.Sign() == 0 {
		return nil
	}
	weighted := MulBps(collateralValue, thresholdBps)
	weighted.Mul(weighted, big.NewInt(HealthPrecision))
	return weighted.Div(weighted, debtValue)
}

// Min returns the smaller of x and y.
func Min(x, y *big.Int) *big.Int {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}
