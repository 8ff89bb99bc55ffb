package chain

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackLiquidateCall(t *testing.T) {
	borrower := common.HexToAddress("0x1111111111111111111111111111111111111111")
	debt := common.HexToAddress("0x2222222222222222222222222222222222222222")
	coll := common.HexToAddress("0x3333333333333333333333333333333333333333")
	pool := common.HexToAddress("0x4444444444444444444444444444444444444444")
	amount := big.NewInt(100_000)

	data, err := executorABI.Pack("liquidate", borrower, debt, coll, amount, pool)
	require.NoError(t, err)

	method := executorABI.Methods["liquidate"]
	require.Equal(t, method.ID, data[:4])
	require.Len(t, data, 4+5*32)

	values, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, borrower, values[0])
	assert.Equal(t, debt, values[1])
	assert.Equal(t, coll, values[2])
	assert.Equal(t, amount, values[3])
	assert.Equal(t, pool, values[4])
}

func TestPackWhitelistCall(t *testing.T) {
	caller := common.HexToAddress("0x5555555555555555555555555555555555555555")

	data, err := executorABI.Pack("setWhitelistedCaller", caller, true)
	require.NoError(t, err)

	values, err := executorABI.Methods["setWhitelistedCaller"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, caller, values[0])
	assert.Equal(t, true, values[1])
}

func TestDecodeInsufficientProfit(t *testing.T) {
	abiErr := executorABI.Errors["InsufficientProfit"]
	packed, err := abiErr.Inputs.Pack(big.NewInt(1950), big.NewInt(2000))
	require.NoError(t, err)
	data := append(abiErr.ID.Bytes()[:4], packed...)

	revert, ok := DecodeInsufficientProfit(data)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1950), revert.Profit)
	assert.Equal(t, big.NewInt(2000), revert.Required)
	assert.Contains(t, revert.Error(), "1950")
}

func TestDecodeInsufficientProfitWrongSelector(t *testing.T) {
	abiErr := executorABI.Errors["InsufficientProfit"]
	packed, err := abiErr.Inputs.Pack(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	data := append([]byte{0xde, 0xad, 0xbe, 0xef}, packed...)

	_, ok := DecodeInsufficientProfit(data)
	assert.False(t, ok)
}

func TestDecodeInsufficientProfitTruncated(t *testing.T) {
	_, ok := DecodeInsufficientProfit(nil)
	assert.False(t, ok)

	abiErr := executorABI.Errors["InsufficientProfit"]
	_, ok = DecodeInsufficientProfit(abiErr.ID.Bytes()[:4])
	assert.False(t, ok)
}

func TestWiringAccessorsExistOnABI(t *testing.T) {
	for _, name := range []string{"ADDRESSES_PROVIDER", "UNISWAP_FACTORY", "SWAP_ROUTER", "WETH", "owner"} {
		method, ok := executorABI.Methods[name]
		require.True(t, ok, "missing accessor %s", name)
		require.Len(t, method.Inputs, 0)
		require.Len(t, method.Outputs, 1)
		assert.Equal(t, "address", method.Outputs[0].Type.String())
	}
}

// rpcDataError mimics the node attaching ABI-encoded revert bytes to an
// RPC error.
type rpcDataError struct {
	data string
}

func (e *rpcDataError) Error() string          { return "execution reverted" }
func (e *rpcDataError) ErrorData() interface{} { return e.data }

func TestRevertDataExtraction(t *testing.T) {
	abiErr := executorABI.Errors["InsufficientProfit"]
	packed, err := abiErr.Inputs.Pack(big.NewInt(100), big.NewInt(500))
	require.NoError(t, err)
	raw := append(abiErr.ID.Bytes()[:4], packed...)

	wrapped := fmt.Errorf("call failed: %w", &rpcDataError{data: "0x" + common.Bytes2Hex(raw)})
	extracted := revertData(wrapped)
	require.Equal(t, raw, extracted)

	revert, ok := DecodeInsufficientProfit(extracted)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(100), revert.Profit)
	assert.Equal(t, big.NewInt(500), revert.Required)
}

func TestRevertDataAbsent(t *testing.T) {
	assert.Nil(t, revertData(fmt.Errorf("plain transport error")))
	assert.Nil(t, revertData(&rpcDataError{data: "not-hex"}))
}
