package dex

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/ledger"
)

// Pair is a constant-product pool over the host ledger with the standard
// 0.30% LP fee. It implements Router for single-hop paths.
type Pair struct {
	mu sync.Mutex

	addr   common.Address
	token0 common.Address
	token1 common.Address
	led    *ledger.Ledger
	logger *zap.Logger
}

// NewPair creates a pair for token0/token1 holding reserves at addr.
func NewPair(addr, token0, token1 common.Address, led *ledger.Ledger, logger *zap.Logger) *Pair {
	return &Pair{
		addr:   addr,
		token0: token0,
		token1: token1,
		led:    led,
		logger: logger,
	}
}

// AddLiquidity mints reserves into the pair.
func (p *Pair) AddLiquidity(amount0, amount1 *big.Int) {
	p.led.Mint(p.token0, p.addr, amount0)
	p.led.Mint(p.token1, p.addr, amount1)
}

// GetReserves returns the current pair reserves, read from the ledger.
func (p *Pair) GetReserves() *Reserves {
	return &Reserves{
		Reserve0: p.led.BalanceOf(p.token0, p.addr),
		Reserve1: p.led.BalanceOf(p.token1, p.addr),
	}
}

// GetAmountOut quotes the output for amountIn of tokenIn using the
// constant product formula with the 0.30% fee.
func (p *Pair) GetAmountOut(amountIn *big.Int, tokenIn common.Address) (*big.Int, error) {
	reserveIn, reserveOut, _, err := p.orient(tokenIn)
	if err != nil {
		return nil, err
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, fmt.Errorf("insufficient liquidity")
	}
	return getAmountOut(amountIn, reserveIn, reserveOut), nil
}

// SwapExactTokensForTokens executes a single-hop swap against the pair.
// The input is pulled from account and the output credited back to it;
// an output below amountOutMin fails the whole swap.
func (p *Pair) SwapExactTokensForTokens(ctx context.Context, amountIn, amountOutMin *big.Int, path []common.Address, account common.Address) (*big.Int, error) {
	if len(path) != 2 {
		return nil, fmt.Errorf("invalid path length %d", len(path))
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	tokenIn, tokenOut := path[0], path[1]
	reserveIn, reserveOut, _, err := p.orient(tokenIn)
	if err != nil {
		return nil, err
	}
	if tokenOut != p.other(tokenIn) {
		return nil, fmt.Errorf("pair does not trade %s/%s", tokenIn.Hex(), tokenOut.Hex())
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, fmt.Errorf("insufficient liquidity")
	}

	out := getAmountOut(amountIn, reserveIn, reserveOut)
	if amountOutMin != nil && out.Cmp(amountOutMin) < 0 {
		return nil, fmt.Errorf("%w: output %s below minimum %s", ErrSlippageExceeded, out, amountOutMin)
	}

	if err := p.led.Transfer(tokenIn, account, p.addr, amountIn); err != nil {
		return nil, fmt.Errorf("failed to pull swap input: %w", err)
	}
	if err := p.led.Transfer(tokenOut, p.addr, account, out); err != nil {
		return nil, fmt.Errorf("failed to pay swap output: %w", err)
	}

	p.logger.Debug("Swap executed",
		zap.String("token_in", tokenIn.Hex()),
		zap.String("amount_in", amountIn.String()),
		zap.String("amount_out", out.String()))
	return out, nil
}

// orient returns (reserveIn, reserveOut, isToken0, error) for tokenIn.
func (p *Pair) orient(tokenIn common.Address) (*big.Int, *big.Int, bool, error) {
	r := p.GetReserves()
	switch tokenIn {
	case p.token0:
		return r.Reserve0, r.Reserve1, true, nil
	case p.token1:
		return r.Reserve1, r.Reserve0, false, nil
	default:
		return nil, nil, false, fmt.Errorf("pair does not hold %s", tokenIn.Hex())
	}
}

func (p *Pair) other(tokenIn common.Address) common.Address {
	if tokenIn == p.token0 {
		return p.token1
	}
	return p.token0
}

// getAmountOut applies the constant product formula with the 0.30% fee.
func getAmountOut(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(997))
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Add(
		new(big.Int).Mul(reserveIn, big.NewInt(1000)),
		amountInWithFee,
	)
	return new(big.Int).Div(numerator, denominator)
}
