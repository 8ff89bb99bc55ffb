package ledger

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	assetD = common.HexToAddress("0xD000000000000000000000000000000000000001")
	assetC = common.HexToAddress("0xC000000000000000000000000000000000000001")
	alice  = common.HexToAddress("0xA000000000000000000000000000000000000001")
	bob    = common.HexToAddress("0xB000000000000000000000000000000000000001")
)

func TestTransfer(t *testing.T) {
	l := New()
	l.Mint(assetD, alice, big.NewInt(1000))

	err := l.Transfer(assetD, alice, bob, big.NewInt(400))
	require.NoError(t, err)
	assert.Equal(t, "600", l.BalanceOf(assetD, alice).String())
	assert.Equal(t, "400", l.BalanceOf(assetD, bob).String())

	// Balances are per asset
	assert.Equal(t, "0", l.BalanceOf(assetC, alice).String())
}

func TestTransferInsufficientBalance(t *testing.T) {
	l := New()
	l.Mint(assetD, alice, big.NewInt(100))

	err := l.Transfer(assetD, alice, bob, big.NewInt(101))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Failed transfer leaves no partial state
	assert.Equal(t, "100", l.BalanceOf(assetD, alice).String())
	assert.Equal(t, "0", l.BalanceOf(assetD, bob).String())
}

func TestSnapshotRevert(t *testing.T) {
	l := New()
	l.Mint(assetD, alice, big.NewInt(1000))

	snap := l.Snapshot()
	require.NoError(t, l.Transfer(assetD, alice, bob, big.NewInt(250)))
	l.Mint(assetC, bob, big.NewInt(50))

	l.RevertTo(snap)
	assert.Equal(t, "1000", l.BalanceOf(assetD, alice).String())
	assert.Equal(t, "0", l.BalanceOf(assetD, bob).String())
	assert.Equal(t, "0", l.BalanceOf(assetC, bob).String())
}

func TestNestedSnapshots(t *testing.T) {
	l := New()
	l.Mint(assetD, alice, big.NewInt(1000))

	outer := l.Snapshot()
	require.NoError(t, l.Transfer(assetD, alice, bob, big.NewInt(100)))

	inner := l.Snapshot()
	require.NoError(t, l.Transfer(assetD, alice, bob, big.NewInt(100)))

	l.RevertTo(inner)
	assert.Equal(t, "900", l.BalanceOf(assetD, alice).String())

	l.RevertTo(outer)
	assert.Equal(t, "1000", l.BalanceOf(assetD, alice).String())
}

func TestRevertIsRepeatable(t *testing.T) {
	l := New()
	l.Mint(assetD, alice, big.NewInt(500))

	snap := l.Snapshot()
	require.NoError(t, l.Transfer(assetD, alice, bob, big.NewInt(500)))
	l.RevertTo(snap)

	// A fresh unit of work after a revert behaves as if the first never
	// happened.
	snap = l.Snapshot()
	require.NoError(t, l.Transfer(assetD, alice, bob, big.NewInt(200)))
	l.RevertTo(snap)
	assert.Equal(t, "500", l.BalanceOf(assetD, alice).String())
}
