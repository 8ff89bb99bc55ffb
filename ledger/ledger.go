// Package ledger implements the in-process host ledger: per-asset token
// balances with journalled snapshots. A liquidation attempt opens a
// snapshot at entry and reverts it wholesale on any failure, which gives
// the engine the same all-or-nothing commit semantics the on-chain host
// provides for free.
package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInsufficientBalance is returned by Transfer when the sender does not
// hold the requested amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// journalEntry records the previous balance of one (asset, holder) slot so
// a revert can restore it.
type journalEntry struct {
	asset  common.Address
	holder common.Address
	prev   *big.Int
}

// Ledger tracks token balances for simulated venues and the executing
// entity. All mutations are serialized by a single mutex; there is no
// interleaving of units of work.
type Ledger struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]*big.Int
	journal  []journalEntry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// BalanceOf returns a copy of the holder's balance of asset.
func (l *Ledger) BalanceOf(asset, holder common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.balance(asset, holder))
}

// Mint credits amount of asset to holder. Used to seed venue liquidity
// and borrower positions.
func (l *Ledger) Mint(asset, holder common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set(asset, holder, new(big.Int).Add(l.balance(asset, holder), amount))
}

// Transfer moves amount of asset from one holder to another. The whole
// transfer applies or none of it does.
func (l *Ledger) Transfer(asset, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("transfer amount must be non-negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fromBal := l.balance(asset, from)
	if fromBal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s of %s, need %s",
			ErrInsufficientBalance, from.Hex(), fromBal, asset.Hex(), amount)
	}
	l.set(asset, from, new(big.Int).Sub(fromBal, amount))
	l.set(asset, to, new(big.Int).Add(l.balance(asset, to), amount))
	return nil
}

// Snapshot marks the current ledger state and returns an identifier that
// RevertTo accepts. Snapshots nest: reverting to an earlier snapshot
// discards everything after it.
func (l *Ledger) Snapshot() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.journal)
}

// RevertTo undoes every mutation recorded since the given snapshot.
func (l *Ledger) RevertTo(snapshot int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if snapshot < 0 || snapshot > len(l.journal) {
		return
	}
	for i := len(l.journal) - 1; i >= snapshot; i-- {
		e := l.journal[i]
		if e.prev == nil {
			delete(l.balances[e.asset], e.holder)
		} else {
			l.balances[e.asset][e.holder] = e.prev
		}
	}
	l.journal = l.journal[:snapshot]
}

// balance returns the stored balance without copying. Caller holds mu.
func (l *Ledger) balance(asset, holder common.Address) *big.Int {
	if holders, ok := l.balances[asset]; ok {
		if bal, ok := holders[holder]; ok {
			return bal
		}
	}
	return big.NewInt(0)
}

// set records the prior value in the journal and stores the new balance.
// Caller holds mu.
func (l *Ledger) set(asset, holder common.Address, amount *big.Int) {
	holders, ok := l.balances[asset]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		l.balances[asset] = holders
	}
	var prev *big.Int
	if p, ok := holders[holder]; ok {
		prev = p
	}
	l.journal = append(l.journal, journalEntry{asset: asset, holder: holder, prev: prev})
	holders[holder] = amount
}
