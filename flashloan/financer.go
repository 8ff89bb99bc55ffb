package flashloan

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/ledger"
	"github.com/michaelpento.lv/liquidator/types"
)

var (
	// ErrUntrustedCallback means a callback claimed to originate from a
	// venue other than the one a loan was requested from.
	ErrUntrustedCallback = errors.New("untrusted flash loan callback")

	// ErrNoActiveLoan means a callback arrived without an outstanding
	// loan request, or after the outstanding one was already consumed.
	ErrNoActiveLoan = errors.New("no active flash loan")

	// ErrLoanInFlight means RequestLoan was invoked while a previous loan
	// context was still live. At most one financing context exists per
	// execution.
	ErrLoanInFlight = errors.New("flash loan already in flight")
)

// InnerFunc is the financed continuation: it runs between loan receipt
// and repayment, with the loan terms pinned to the validated context.
type InnerFunc func(ctx context.Context, principal, fee *big.Int) error

// CallbackContext is the transient state of one in-flight loan. It is
// created by RequestLoan, consumed exactly once by OnFlashLoan, and never
// outlives the request.
type CallbackContext struct {
	Venue       common.Address
	Asset       common.Address
	Principal   *big.Int
	Fee         *big.Int
	Opportunity *types.LiquidationOpportunity

	consumed bool
	inner    InnerFunc
}

// Financer requests same-transaction loans on behalf of the executing
// entity and implements the venue's callback contract. It records the
// expected venue identity when a loan is requested and rejects any
// callback that does not match it.
type Financer struct {
	lender  Lender
	account common.Address
	led     *ledger.Ledger
	logger  *zap.Logger

	active *CallbackContext
}

// NewFinancer creates a financer borrowing from lender into account.
func NewFinancer(lender Lender, account common.Address, led *ledger.Ledger, logger *zap.Logger) *Financer {
	return &Financer{
		lender:  lender,
		account: account,
		led:     led,
		logger:  logger,
	}
}

// Account returns the address loans are disbursed to.
func (f *Financer) Account() common.Address {
	return f.account
}

// RequestLoan borrows amount of asset and runs inner inside the venue's
// callback. The callback context exists only for the duration of this
// call; it is cleared on every exit path.
func (f *Financer) RequestLoan(ctx context.Context, opp *types.LiquidationOpportunity, asset common.Address, amount *big.Int, inner InnerFunc) error {
	if f.active != nil {
		return ErrLoanInFlight
	}
	f.active = &CallbackContext{
		Venue:       f.lender.Address(),
		Asset:       asset,
		Principal:   new(big.Int).Set(amount),
		Fee:         f.lender.FlashFee(asset, amount),
		Opportunity: opp,
		inner:       inner,
	}
	defer func() { f.active = nil }()

	if err := f.lender.Flash(ctx, f, asset, amount, nil); err != nil {
		return err
	}
	return nil
}

// OnFlashLoan is the venue's re-entry point. It validates the trust
// boundary, runs the financed continuation, then repays principal+fee.
func (f *Financer) OnFlashLoan(ctx context.Context, venue common.Address, asset common.Address, principal, fee *big.Int, data []byte) error {
	active := f.active
	if active == nil || active.consumed {
		return ErrNoActiveLoan
	}
	if venue != active.Venue {
		return fmt.Errorf("%w: got %s, requested from %s", ErrUntrustedCallback, venue.Hex(), active.Venue.Hex())
	}
	if asset != active.Asset || principal.Cmp(active.Principal) != 0 {
		return fmt.Errorf("%w: loan terms do not match request", ErrUntrustedCallback)
	}
	active.consumed = true

	if err := active.inner(ctx, principal, fee); err != nil {
		return err
	}

	// Repay principal+fee exactly. A shortfall here is fatal; the host
	// unwinds the whole unit of work.
	owed := new(big.Int).Add(principal, fee)
	if err := f.led.Transfer(asset, f.account, venue, owed); err != nil {
		return fmt.Errorf("failed to repay flash loan of %s: %w", owed, err)
	}

	f.logger.Debug("Flash loan repaid",
		zap.String("venue", venue.Hex()),
		zap.String("owed", owed.String()))
	return nil
}
