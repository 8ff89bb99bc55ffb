// Package uniswap provides a read-only quoter for deployed V2-style
// pairs, used by the operational tooling to estimate conversion output
// before submitting a liquidation on chain.
package uniswap

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	lru "github.com/hashicorp/golang-lru"

	"github.com/michaelpento.lv/liquidator/dex"
)

// V2 init code hash for CREATE2 pair derivation.
var defaultInitCode = common.FromHex("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")

const pairCacheSize = 256

// Quoter computes pair addresses and quotes swap returns against
// deployed V2 pairs. Pair bindings are cached.
type Quoter struct {
	client   *ethclient.Client
	factory  common.Address
	initCode []byte
	pairs    *lru.Cache
}

// NewQuoter creates a quoter for the given pool factory.
func NewQuoter(client *ethclient.Client, factory common.Address) (*Quoter, error) {
	cache, err := lru.New(pairCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pair cache: %w", err)
	}
	return &Quoter{
		client:   client,
		factory:  factory,
		initCode: defaultInitCode,
		pairs:    cache,
	}, nil
}

// PairFor derives the CREATE2 pair address for two tokens.
func (q *Quoter) PairFor(tokenA, tokenB common.Address) common.Address {
	token0, token1 := sortTokens(tokenA, tokenB)
	salt := crypto.Keccak256(token0.Bytes(), token1.Bytes())
	return common.BytesToAddress(crypto.Keccak256(
		[]byte{0xff}, q.factory.Bytes(), salt, q.initCode,
	))
}

// GetReserves returns pair reserves aligned to (tokenA, tokenB) order.
func (q *Quoter) GetReserves(ctx context.Context, tokenA, tokenB common.Address) (*dex.Reserves, error) {
	pair := q.pair(tokenA, tokenB)
	reserve0, reserve1, err := pair.GetReserves()
	if err != nil {
		return nil, err
	}
	token0, _ := sortTokens(tokenA, tokenB)
	if tokenA != token0 {
		reserve0, reserve1 = reserve1, reserve0
	}
	return &dex.Reserves{Reserve0: reserve0, Reserve1: reserve1}, nil
}

// EstimateReturn estimates the output of swapping amountIn along path.
func (q *Quoter) EstimateReturn(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("invalid path length %d", len(path))
	}
	amount := amountIn
	for i := 0; i < len(path)-1; i++ {
		reserves, err := q.GetReserves(ctx, path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		if reserves.Reserve0.Sign() == 0 || reserves.Reserve1.Sign() == 0 {
			return nil, fmt.Errorf("insufficient liquidity in pair %s", q.PairFor(path[i], path[i+1]).Hex())
		}
		amount = getAmountOut(amount, reserves.Reserve0, reserves.Reserve1)
	}
	return amount, nil
}

// pair returns a cached binding for the tokens' pair contract.
func (q *Quoter) pair(tokenA, tokenB common.Address) *Pair {
	addr := q.PairFor(tokenA, tokenB)
	if cached, ok := q.pairs.Get(addr); ok {
		return cached.(*Pair)
	}
	pair := NewPair(addr, q.client)
	q.pairs.Add(addr, pair)
	return pair
}

func sortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) > 0 {
		return tokenB, tokenA
	}
	return tokenA, tokenB
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
