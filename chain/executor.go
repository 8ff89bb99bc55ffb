package chain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// executorABIJson is the deployed liquidation executor's interface: the
// liquidation entry point, the owner's whitelist control, the read-only
// deploy-time wiring, and the profit-shortfall error it reverts with.
const executorABIJson = `[
	{"type":"function","name":"liquidate","stateMutability":"nonpayable","inputs":[
		{"name":"user","type":"address"},
		{"name":"debtToken","type":"address"},
		{"name":"collateralToken","type":"address"},
		{"name":"debtAmount","type":"uint256"},
		{"name":"uniswapPool","type":"address"}],"outputs":[]},
	{"type":"function","name":"setWhitelistedCaller","stateMutability":"nonpayable","inputs":[
		{"name":"caller","type":"address"},
		{"name":"allowed","type":"bool"}],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"ADDRESSES_PROVIDER","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"UNISWAP_FACTORY","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"SWAP_ROUTER","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"WETH","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"error","name":"InsufficientProfit","inputs":[
		{"name":"profit","type":"uint256"},
		{"name":"required","type":"uint256"}]}
]`

var executorABI = mustParseABI(executorABIJson)

func mustParseABI(json string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(json))
	if err != nil {
		panic(fmt.Sprintf("invalid executor ABI: %v", err))
	}
	return parsed
}

// InsufficientProfitRevert is the decoded form of the executor's
// InsufficientProfit(uint256,uint256) revert.
type InsufficientProfitRevert struct {
	Profit   *big.Int
	Required *big.Int
}

func (r *InsufficientProfitRevert) Error() string {
	return fmt.Sprintf("executor reverted: insufficient profit %s, required %s", r.Profit, r.Required)
}

// DecodeInsufficientProfit parses revert data against the executor's
// InsufficientProfit error. Returns false when the data carries a
// different selector.
func DecodeInsufficientProfit(data []byte) (*InsufficientProfitRevert, bool) {
	abiErr, ok := executorABI.Errors["InsufficientProfit"]
	if !ok || len(data) < 4 {
		return nil, false
	}
	if !strings.EqualFold(hex.EncodeToString(data[:4]), hex.EncodeToString(abiErr.ID.Bytes()[:4])) {
		return nil, false
	}
	values, err := abiErr.Inputs.Unpack(data[4:])
	if err != nil || len(values) != 2 {
		return nil, false
	}
	profit, ok1 := values[0].(*big.Int)
	required, ok2 := values[1].(*big.Int)
	if !ok1 || !ok2 {
		return nil, false
	}
	return &InsufficientProfitRevert{Profit: profit, Required: required}, true
}
