package engine

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckProfitAboveMinimum(t *testing.T) {
	profit, err := CheckProfit(big.NewInt(102_000), big.NewInt(100_050), big.NewInt(1500))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1950), profit)
}

func TestCheckProfitExactlyAtMinimum(t *testing.T) {
	profit, err := CheckProfit(big.NewInt(102_000), big.NewInt(100_050), big.NewInt(1950))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1950), profit)
}

func TestCheckProfitBelowMinimum(t *testing.T) {
	_, err := CheckProfit(big.NewInt(102_000), big.NewInt(100_050), big.NewInt(2000))
	require.Error(t, err)

	var insufficient *InsufficientProfitError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, big.NewInt(1950), insufficient.Profit)
	assert.Equal(t, big.NewInt(2000), insufficient.Required)
}

func TestCheckProfitNetOfFinancingCost(t *testing.T) {
	// Gross output covers the minimum but the loan fee pushes net below it.
	_, err := CheckProfit(big.NewInt(100_040), big.NewInt(100_050), big.NewInt(0))
	require.Error(t, err)

	var insufficient *InsufficientProfitError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, big.NewInt(-10), insufficient.Profit)
}
