package lending

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/ledger"
)

// Invoker drives the lending pool's liquidation entry point on behalf of
// the executing entity. Seized amounts are measured by collateral balance
// delta rather than trusted from the protocol's return values, so a
// misreporting or short-transferring pool cannot silently feed bad
// numbers into the rest of the pipeline.
type Invoker struct {
	pool    Pool
	led     *ledger.Ledger
	account common.Address
	logger  *zap.Logger
}

// NewInvoker creates an invoker executing liquidations from account.
func NewInvoker(pool Pool, led *ledger.Ledger, account common.Address, logger *zap.Logger) *Invoker {
	return &Invoker{
		pool:    pool,
		led:     led,
		account: account,
		logger:  logger,
	}
}

// Execute repays repayAmount of the borrower's debt and returns the
// measured amount of collateral received. Protocol refusals surface as
// RejectedError.
func (i *Invoker) Execute(ctx context.Context, borrower, debtAsset, collateralAsset common.Address, repayAmount *big.Int) (*big.Int, error) {
	if repayAmount == nil || repayAmount.Sign() <= 0 {
		return nil, &RejectedError{Reason: fmt.Errorf("invalid repay amount")}
	}

	before := i.led.BalanceOf(collateralAsset, i.account)

	if err := i.pool.LiquidationCall(ctx, collateralAsset, debtAsset, borrower, repayAmount, i.account); err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			return nil, err
		}
		return nil, &RejectedError{Reason: err}
	}

	after := i.led.BalanceOf(collateralAsset, i.account)
	seized := new(big.Int).Sub(after, before)
	if seized.Sign() <= 0 {
		return nil, &RejectedError{Reason: fmt.Errorf("no collateral received for repaying %s", repayAmount)}
	}

	i.logger.Debug("Collateral seized",
		zap.String("borrower", borrower.Hex()),
		zap.String("repaid", repayAmount.String()),
		zap.String("seized", seized.String()))
	return seized, nil
}
