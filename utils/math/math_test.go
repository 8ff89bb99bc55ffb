package math

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulBpsRoundsDown(t *testing.T) {
	assert.Equal(t, big.NewInt(50), MulBps(big.NewInt(100_000), 5))
	assert.Equal(t, big.NewInt(0).String(), MulBps(big.NewInt(1999), 5).String())
	assert.Equal(t, big.NewInt(100_000), MulBps(big.NewInt(100_000), 10000))
}

func TestFlashLoanFee(t *testing.T) {
	assert.Equal(t, big.NewInt(50), FlashLoanFee(big.NewInt(100_000), 5))
	assert.Equal(t, big.NewInt(0), FlashLoanFee(big.NewInt(100_000), 0))
}

func TestSeizableCollateralAtParity(t *testing.T) {
	parity := big.NewInt(HealthPrecision)
	// 100000 debt at parity prices with a 5% bonus seizes 105000.
	seize := SeizableCollateral(big.NewInt(100_000), parity, parity, 500)
	assert.Equal(t, big.NewInt(105_000), seize)
}

func TestSeizableCollateralRepricing(t *testing.T) {
	debtPrice := big.NewInt(HealthPrecision)
	collPrice := new(big.Int).Mul(big.NewInt(2), big.NewInt(HealthPrecision))
	// Collateral worth twice the debt asset: half the units, plus bonus.
	seize := SeizableCollateral(big.NewInt(100_000), debtPrice, collPrice, 500)
	assert.Equal(t, big.NewInt(52_500), seize)
}

func TestHealthFactor(t *testing.T) {
	// 105000 collateral against 100000 debt at a 95% threshold.
	health := HealthFactor(big.NewInt(105_000), big.NewInt(100_000), 9500)
	require.NotNil(t, health)

	expected, ok := new(big.Int).SetString("997500000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, expected, health)
	assert.Equal(t, -1, health.Cmp(big.NewInt(HealthPrecision)))
}

func TestHealthFactorNoDebt(t *testing.T) {
	assert.Nil(t, HealthFactor(big.NewInt(105_000), big.NewInt(0), 9500))
	assert.Nil(t, HealthFactor(big.NewInt(105_000), nil, 9500))
}

func TestMin(t *testing.T) {
	assert.Equal(t, big.NewInt(1), Min(big.NewInt(1), big.NewInt(2)))
	assert.Equal(t, big.NewInt(1), Min(big.NewInt(2), big.NewInt(1)))
	assert.Equal(t, big.NewInt(3), Min(big.NewInt(3), big.NewInt(3)))
}
