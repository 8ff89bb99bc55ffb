package types

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOpportunity() *LiquidationOpportunity {
	return &LiquidationOpportunity{
		Borrower:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
		DebtAsset:       common.HexToAddress("0x2222222222222222222222222222222222222222"),
		CollateralAsset: common.HexToAddress("0x3333333333333333333333333333333333333333"),
		MaxDebtToRepay:  big.NewInt(100_000),
		MinProfit:       big.NewInt(1500),
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validOpportunity().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*LiquidationOpportunity)
	}{
		{"zero borrower", func(o *LiquidationOpportunity) { o.Borrower = common.Address{} }},
		{"zero debt asset", func(o *LiquidationOpportunity) { o.DebtAsset = common.Address{} }},
		{"zero collateral asset", func(o *LiquidationOpportunity) { o.CollateralAsset = common.Address{} }},
		{"same assets", func(o *LiquidationOpportunity) { o.CollateralAsset = o.DebtAsset }},
		{"nil repay amount", func(o *LiquidationOpportunity) { o.MaxDebtToRepay = nil }},
		{"zero repay amount", func(o *LiquidationOpportunity) { o.MaxDebtToRepay = big.NewInt(0) }},
		{"negative min profit", func(o *LiquidationOpportunity) { o.MinProfit = big.NewInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opp := validOpportunity()
			tc.mutate(opp)
			assert.Error(t, opp.Validate())
		})
	}
}

func TestValidateNil(t *testing.T) {
	var opp *LiquidationOpportunity
	assert.Error(t, opp.Validate())
}

func TestZeroMinProfitIsAllowed(t *testing.T) {
	opp := validOpportunity()
	opp.MinProfit = big.NewInt(0)
	assert.NoError(t, opp.Validate())
}

func TestIDIsStable(t *testing.T) {
	first := validOpportunity().ID()
	second := validOpportunity().ID()
	assert.Equal(t, first, second)
	assert.Len(t, first, 16)

	// Amounts do not change the fingerprint; the tuple does.
	resized := validOpportunity()
	resized.MaxDebtToRepay = big.NewInt(1)
	assert.Equal(t, first, resized.ID())

	other := validOpportunity()
	other.Borrower = common.HexToAddress("0x4444444444444444444444444444444444444444")
	assert.NotEqual(t, first, other.ID())
}
