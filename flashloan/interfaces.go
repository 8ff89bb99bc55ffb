package flashloan

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Lender is a venue that issues same-transaction loans: the borrowed
// amount is pushed to the receiver, the receiver's callback runs, and the
// venue verifies that principal plus fee came back before Flash returns.
type Lender interface {
	// Address identifies the venue instance. Receivers use it to verify
	// that a callback originates from the lender they requested from.
	Address() common.Address

	// FlashFee returns the fee owed on a loan of the given amount.
	FlashFee(asset common.Address, amount *big.Int) *big.Int

	// Flash issues the loan and synchronously invokes the receiver's
	// callback. It fails if the loan plus fee is not returned by the time
	// the callback completes.
	Flash(ctx context.Context, receiver Receiver, asset common.Address, amount *big.Int, data []byte) error

	String() string
}

// Receiver is the callback contract a lender invokes mid-flight. This is
// a trust boundary: implementations must verify the venue identity and
// that a loan is actually outstanding before acting on the callback.
type Receiver interface {
	// Account is the address the venue pushes the principal to.
	Account() common.Address

	// OnFlashLoan is invoked by the venue after the principal has been
	// transferred. The receiver must transfer principal+fee back to the
	// venue before returning.
	OnFlashLoan(ctx context.Context, venue common.Address, asset common.Address, principal, fee *big.Int, data []byte) error
}
