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

func TestInvokerMeasuresSeizedCollateral(t *testing.T) {
	led := ledger.New()
	pool := unhealthyPool(t, led)
	led.Mint(assetD, liquidator, big.NewInt(100_000))

	inv := NewInvoker(pool, led, liquidator, zaptest.NewLogger(t))
	seized, err := inv.Execute(context.Background(), borrower, assetD, assetC, big.NewInt(100_000))
	require.NoError(t, err)
	assert.Equal(t, "105000", seized.String())
}

// silentPool reports success without moving any collateral.
type silentPool struct{}

func (silentPool) LiquidationCall(ctx context.Context, collateralAsset, debtAsset, borrower common.Address, debtToCover *big.Int, liquidator common.Address) error {
	return nil
}

func (silentPool) HealthFactor(borrower common.Address) *big.Int {
	return big.NewInt(0)
}

func TestInvokerRejectsMisreportingPool(t *testing.T) {
	led := ledger.New()
	inv := NewInvoker(silentPool{}, led, liquidator, zaptest.NewLogger(t))

	_, err := inv.Execute(context.Background(), borrower, assetD, assetC, big.NewInt(100_000))
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Contains(t, rejected.Error(), "no collateral received")
}

func TestInvokerPropagatesRejection(t *testing.T) {
	led := ledger.New()
	pool := unhealthyPool(t, led)
	led.Mint(assetD, liquidator, big.NewInt(100_000))

	inv := NewInvoker(pool, led, liquidator, zaptest.NewLogger(t))
	_, err := inv.Execute(context.Background(), liquidator, assetD, assetC, big.NewInt(1))
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
}

func TestInvokerValidatesAmount(t *testing.T) {
	led := ledger.New()
	inv := NewInvoker(silentPool{}, led, liquidator, zaptest.NewLogger(t))

	_, err := inv.Execute(context.Background(), borrower, assetD, assetC, big.NewInt(0))
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
}
