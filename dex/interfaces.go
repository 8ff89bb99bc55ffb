package dex

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrSlippageExceeded means a swap could not deliver the required minimum
// output. Economic, expected, and safe: the attempt reverts cleanly.
var ErrSlippageExceeded = errors.New("slippage exceeded")

// Router executes token swaps through a liquidity venue.
type Router interface {
	// SwapExactTokensForTokens swaps amountIn of path[0] for at least
	// amountOutMin of path[len-1], crediting the output to account. The
	// venue must fail the whole swap rather than deliver less than
	// amountOutMin.
	SwapExactTokensForTokens(ctx context.Context, amountIn, amountOutMin *big.Int, path []common.Address, account common.Address) (*big.Int, error)
}

// Reserves represents token pair reserves.
type Reserves struct {
	Reserve0 *big.Int
	Reserve1 *big.Int
}
