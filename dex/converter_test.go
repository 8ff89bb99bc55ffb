package dex

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/michaelpento.lv/liquidator/ledger"
)

func TestConvertThroughPair(t *testing.T) {
	led := ledger.New()
	pair := newTestPair(t, led, 10_000_000, 10_000_000)
	led.Mint(assetC, trader, big.NewInt(100_000))

	conv := NewConverter(pair, led, trader, zaptest.NewLogger(t))
	out, err := conv.Convert(context.Background(), assetC, big.NewInt(100_000), assetD, big.NewInt(90_000))
	require.NoError(t, err)
	assert.Equal(t, out.String(), led.BalanceOf(assetD, trader).String())
	assert.Equal(t, 1, out.Cmp(big.NewInt(90_000)))
}

func TestConvertPropagatesSlippage(t *testing.T) {
	led := ledger.New()
	pair := newTestPair(t, led, 10_000_000, 10_000_000)
	led.Mint(assetC, trader, big.NewInt(100_000))

	conv := NewConverter(pair, led, trader, zaptest.NewLogger(t))
	_, err := conv.Convert(context.Background(), assetC, big.NewInt(100_000), assetD, big.NewInt(100_000))
	require.ErrorIs(t, err, ErrSlippageExceeded)
}

// lyingRouter reports a healthy output but credits less than the minimum.
type lyingRouter struct {
	led  *ledger.Ledger
	pays *big.Int
}

func (r *lyingRouter) SwapExactTokensForTokens(ctx context.Context, amountIn, amountOutMin *big.Int, path []common.Address, account common.Address) (*big.Int, error) {
	r.led.Mint(path[1], account, r.pays)
	return new(big.Int).Set(amountOutMin), nil
}

func TestConvertMeasuresActualOutput(t *testing.T) {
	led := ledger.New()
	router := &lyingRouter{led: led, pays: big.NewInt(50_000)}

	conv := NewConverter(router, led, trader, zaptest.NewLogger(t))
	_, err := conv.Convert(context.Background(), assetC, big.NewInt(100_000), assetD, big.NewInt(90_000))
	require.ErrorIs(t, err, ErrSlippageExceeded)
}

// failingRouter always errors.
type failingRouter struct{}

func (failingRouter) SwapExactTokensForTokens(ctx context.Context, amountIn, amountOutMin *big.Int, path []common.Address, account common.Address) (*big.Int, error) {
	return nil, errors.New("venue offline")
}

func TestConvertWrapsRouterFailure(t *testing.T) {
	led := ledger.New()
	conv := NewConverter(failingRouter{}, led, trader, zaptest.NewLogger(t))

	_, err := conv.Convert(context.Background(), assetC, big.NewInt(100_000), assetD, big.NewInt(1))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlippageExceeded)
}

func TestConvertValidatesInput(t *testing.T) {
	led := ledger.New()
	conv := NewConverter(failingRouter{}, led, trader, zaptest.NewLogger(t))

	_, err := conv.Convert(context.Background(), assetC, big.NewInt(0), assetD, big.NewInt(1))
	require.Error(t, err)
}
