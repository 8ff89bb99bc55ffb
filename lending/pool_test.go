package lending

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/michaelpento.lv/liquidator/ledger"
)

var (
	assetD     = common.HexToAddress("0xD000000000000000000000000000000000000001")
	assetC     = common.HexToAddress("0xC000000000000000000000000000000000000001")
	poolAddr   = common.HexToAddress("0x1e00000000000000000000000000000000000001")
	borrower   = common.HexToAddress("0xB000000000000000000000000000000000000001")
	liquidator = common.HexToAddress("0xE000000000000000000000000000000000000001")
)

var parity = big.NewInt(1e18)

// unhealthyPool books a borrower owing 100,000 D against 105,000 C at
// price parity: health 0.9975, liquidatable. Bonus 5%, full close factor.
func unhealthyPool(t *testing.T, led *ledger.Ledger) *ReservePool {
	t.Helper()
	p := NewReservePool(poolAddr, led, 9500, 10000, 500, zaptest.NewLogger(t))
	p.SetPrice(assetD, parity)
	p.SetPrice(assetC, parity)
	p.OpenPosition(borrower, assetC, big.NewInt(105_000), assetD, big.NewInt(100_000))
	return p
}

func TestHealthFactor(t *testing.T) {
	led := ledger.New()
	p := unhealthyPool(t, led)

	// 105,000 * 0.95 / 100,000 = 0.9975
	hf := p.HealthFactor(borrower)
	require.NotNil(t, hf)
	assert.Equal(t, "997500000000000000", hf.String())

	// Unknown borrower has no health factor
	assert.Nil(t, p.HealthFactor(liquidator))
}

func TestLiquidationCallSeizesDiscountedCollateral(t *testing.T) {
	led := ledger.New()
	p := unhealthyPool(t, led)
	led.Mint(assetD, liquidator, big.NewInt(100_000))

	err := p.LiquidationCall(context.Background(), assetC, assetD, borrower, big.NewInt(100_000), liquidator)
	require.NoError(t, err)

	// 100,000 D at parity with a 5% bonus releases 105,000 C.
	assert.Equal(t, "105000", led.BalanceOf(assetC, liquidator).String())
	assert.Equal(t, "0", led.BalanceOf(assetD, liquidator).String())
	assert.Equal(t, "100000", led.BalanceOf(assetD, poolAddr).String())

	// Position is closed out.
	assert.Nil(t, p.HealthFactor(borrower))
}

func TestLiquidationCallRejectsHealthyBorrower(t *testing.T) {
	led := ledger.New()
	p := NewReservePool(poolAddr, led, 9500, 10000, 500, zaptest.NewLogger(t))
	p.SetPrice(assetD, parity)
	p.SetPrice(assetC, parity)
	// 200,000 C against 100,000 D: health 1.9, not liquidatable.
	p.OpenPosition(borrower, assetC, big.NewInt(200_000), assetD, big.NewInt(100_000))
	led.Mint(assetD, liquidator, big.NewInt(100_000))

	err := p.LiquidationCall(context.Background(), assetC, assetD, borrower, big.NewInt(50_000), liquidator)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Contains(t, rejected.Error(), "health factor")

	// Nothing moved.
	assert.Equal(t, "100000", led.BalanceOf(assetD, liquidator).String())
	assert.Equal(t, "0", led.BalanceOf(assetC, liquidator).String())
}

func TestLiquidationCallEnforcesCloseFactor(t *testing.T) {
	led := ledger.New()
	p := NewReservePool(poolAddr, led, 9500, 5000, 500, zaptest.NewLogger(t))
	p.SetPrice(assetD, parity)
	p.SetPrice(assetC, parity)
	p.OpenPosition(borrower, assetC, big.NewInt(105_000), assetD, big.NewInt(100_000))
	led.Mint(assetD, liquidator, big.NewInt(100_000))

	// 50% close factor caps the covered debt at 50,000.
	err := p.LiquidationCall(context.Background(), assetC, assetD, borrower, big.NewInt(60_000), liquidator)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Contains(t, rejected.Error(), "close factor")

	require.NoError(t, p.LiquidationCall(context.Background(), assetC, assetD, borrower, big.NewInt(50_000), liquidator))
	assert.Equal(t, "52500", led.BalanceOf(assetC, liquidator).String())
}

func TestLiquidationCallRejectsUnknownBorrower(t *testing.T) {
	led := ledger.New()
	p := unhealthyPool(t, led)

	err := p.LiquidationCall(context.Background(), assetC, assetD, liquidator, big.NewInt(1), liquidator)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
}

func TestLiquidationCallRequiresFundedLiquidator(t *testing.T) {
	led := ledger.New()
	p := unhealthyPool(t, led)

	// Liquidator holds nothing; the repayment pull fails.
	err := p.LiquidationCall(context.Background(), assetC, assetD, borrower, big.NewInt(100_000), liquidator)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
}
