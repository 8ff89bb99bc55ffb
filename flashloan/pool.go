package flashloan

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/ledger"
	"github.com/michaelpento.lv/liquidator/utils/math"
)

// Pool is a flash lender over the host ledger. It mirrors the push-model
// venues (Aave-style): principal is transferred to the receiver up front
// and the pool checks its own balance after the callback instead of
// trusting the receiver's word.
type Pool struct {
	addr   common.Address
	led    *ledger.Ledger
	feeBps uint16
	logger *zap.Logger
}

// NewPool creates a flash lender holding liquidity at addr on the given
// ledger. feeBps is the loan fee in basis points.
func NewPool(addr common.Address, led *ledger.Ledger, feeBps uint16, logger *zap.Logger) *Pool {
	return &Pool{
		addr:   addr,
		led:    led,
		feeBps: feeBps,
		logger: logger,
	}
}

// Address returns the venue identity.
func (p *Pool) Address() common.Address {
	return p.addr
}

// FlashFee returns the fee for borrowing amount.
func (p *Pool) FlashFee(asset common.Address, amount *big.Int) *big.Int {
	return math.FlashLoanFee(amount, p.feeBps)
}

// Flash lends amount of asset to the receiver, runs its callback, and
// verifies that principal+fee was returned. Any shortfall fails the whole
// operation.
func (p *Pool) Flash(ctx context.Context, receiver Receiver, asset common.Address, amount *big.Int, data []byte) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("invalid loan amount")
	}
	liquidity := p.led.BalanceOf(asset, p.addr)
	if liquidity.Cmp(amount) < 0 {
		return fmt.Errorf("pool liquidity %s below requested %s", liquidity, amount)
	}

	fee := p.FlashFee(asset, amount)
	before := p.led.BalanceOf(asset, p.addr)

	if err := p.led.Transfer(asset, p.addr, receiver.Account(), amount); err != nil {
		return fmt.Errorf("failed to disburse loan: %w", err)
	}

	if err := receiver.OnFlashLoan(ctx, p.addr, asset, amount, fee, data); err != nil {
		return fmt.Errorf("flash loan callback failed: %w", err)
	}

	// The receiver repays by transfer, so the pool's own balance is the
	// only evidence of repayment that counts.
	expected := new(big.Int).Add(before, fee)
	after := p.led.BalanceOf(asset, p.addr)
	if after.Cmp(expected) < 0 {
		return fmt.Errorf("loan not repaid: pool holds %s, expected %s", after, expected)
	}

	p.logger.Debug("Flash loan settled",
		zap.String("asset", asset.Hex()),
		zap.String("principal", amount.String()),
		zap.String("fee", fee.String()))
	return nil
}

// String returns the venue name.
func (p *Pool) String() string {
	return fmt.Sprintf("FlashPool(%s)", p.addr.Hex())
}
