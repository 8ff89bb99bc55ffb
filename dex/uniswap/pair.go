package uniswap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Pair contract ABI, reserves only.
const pairABIJson = `[{
	"constant": true,
	"inputs": [],
	"name": "getReserves",
	"outputs": [
		{"name": "reserve0", "type": "uint112"},
		{"name": "reserve1", "type": "uint112"},
		{"name": "blockTimestampLast", "type": "uint32"}
	],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}]`

var pairABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(pairABIJson))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Pair is a deployed V2 pair contract.
type Pair struct {
	contract *bind.BoundContract
	address  common.Address
}

// NewPair binds the pair contract at address.
func NewPair(address common.Address, client *ethclient.Client) *Pair {
	return &Pair{
		contract: bind.NewBoundContract(address, pairABI, client, client, client),
		address:  address,
	}
}

// Address returns the pair contract address.
func (p *Pair) Address() common.Address {
	return p.address
}

// GetReserves returns the pair reserves in token0/token1 order.
func (p *Pair) GetReserves() (reserve0, reserve1 *big.Int, err error) {
	var out []interface{}
	if err := p.contract.Call(&bind.CallOpts{}, &out, "getReserves"); err != nil {
		return nil, nil, fmt.Errorf("failed to get reserves: %w", err)
	}
	if len(out) < 2 {
		return nil, nil, fmt.Errorf("unexpected getReserves output length %d", len(out))
	}
	reserve0, ok := out[0].(*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected reserve0 type %T", out[0])
	}
	reserve1, ok = out[1].(*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected reserve1 type %T", out[1])
	}
	return reserve0, reserve1, nil
}
