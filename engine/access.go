package engine

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnauthorized means the caller is neither whitelisted nor the
	// owner. Terminal; resubmitting from the same identity cannot help.
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrNotOwner means a whitelist mutation was attempted by a
	// non-owner.
	ErrNotOwner = errors.New("caller is not the owner")
)

// AccessController gates liquidation entry on a whitelist that only the
// owner may mutate. The whitelist persists across liquidation calls and
// is read-only during execution.
type AccessController struct {
	mu        sync.RWMutex
	owner     common.Address
	whitelist map[common.Address]bool
}

// NewAccessController creates a controller owned by owner. The owner is
// implicitly authorized.
func NewAccessController(owner common.Address) *AccessController {
	return &AccessController{
		owner:     owner,
		whitelist: make(map[common.Address]bool),
	}
}

// Owner returns the owner address.
func (a *AccessController) Owner() common.Address {
	return a.owner
}

// Authorize checks that caller may trigger a liquidation.
func (a *AccessController) Authorize(caller common.Address) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if caller == a.owner || a.whitelist[caller] {
		return nil
	}
	return ErrUnauthorized
}

// SetWhitelisted adds or removes addr from the whitelist. Only the owner
// may call this.
func (a *AccessController) SetWhitelisted(sender, addr common.Address, allowed bool) error {
	if sender != a.owner {
		return ErrNotOwner
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if allowed {
		a.whitelist[addr] = true
	} else {
		delete(a.whitelist, addr)
	}
	return nil
}

// IsWhitelisted reports whether addr is on the whitelist.
func (a *AccessController) IsWhitelisted(addr common.Address) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.whitelist[addr]
}
