package uniswap

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	factory = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	weth    = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	dai     = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
)

func TestPairForIsOrderIndependent(t *testing.T) {
	q, err := NewQuoter(nil, factory)
	require.NoError(t, err)

	assert.Equal(t, q.PairFor(weth, dai), q.PairFor(dai, weth))
	assert.NotEqual(t, common.Address{}, q.PairFor(weth, dai))
}

func TestPairForMatchesMainnetDeployment(t *testing.T) {
	q, err := NewQuoter(nil, factory)
	require.NoError(t, err)

	// Canonical DAI/WETH V2 pair.
	expected := common.HexToAddress("0xA478c2975Ab1Ea89e8196811F51A7B7Ade33eB11")
	assert.Equal(t, expected, q.PairFor(dai, weth))
}

func TestGetAmountOutAppliesFee(t *testing.T) {
	out := getAmountOut(big.NewInt(1000), big.NewInt(1_000_000), big.NewInt(1_000_000))
	// 997 * 1000 * 1000000 / (1000000000 + 997000) = 996
	assert.Equal(t, "996", out.String())
}

func TestSortTokens(t *testing.T) {
	a, b := sortTokens(weth, dai)
	assert.Equal(t, dai, a)
	assert.Equal(t, weth, b)
}
