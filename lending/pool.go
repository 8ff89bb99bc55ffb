package lending

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/ledger"
	"github.com/michaelpento.lv/liquidator/utils/math"
)

// position is one borrower's books: posted collateral and open debt, per
// asset.
type position struct {
	collateral map[common.Address]*big.Int
	debt       map[common.Address]*big.Int
}

// ReservePool is an Aave-style lending pool over the host ledger. Prices
// are quoted in a common reference unit at 1e18 scale; the liquidation
// threshold, close factor and bonus are basis points.
type ReservePool struct {
	mu sync.Mutex

	addr      common.Address
	led       *ledger.Ledger
	logger    *zap.Logger
	prices    map[common.Address]*big.Int
	positions map[common.Address]*position

	liquidationThresholdBps uint16
	closeFactorBps          uint16
	liquidationBonusBps     uint16
}

// NewReservePool creates a pool holding reserves at addr on the ledger.
func NewReservePool(addr common.Address, led *ledger.Ledger, thresholdBps, closeFactorBps, bonusBps uint16, logger *zap.Logger) *ReservePool {
	return &ReservePool{
		addr:                    addr,
		led:                     led,
		logger:                  logger,
		prices:                  make(map[common.Address]*big.Int),
		positions:               make(map[common.Address]*position),
		liquidationThresholdBps: thresholdBps,
		closeFactorBps:          closeFactorBps,
		liquidationBonusBps:     bonusBps,
	}
}

// SetPrice quotes an asset in the reference unit at 1e18 scale.
func (p *ReservePool) SetPrice(asset common.Address, price *big.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[asset] = new(big.Int).Set(price)
}

// OpenPosition books a borrower with posted collateral and open debt.
// The collateral tokens are escrowed at the pool's ledger account.
func (p *ReservePool) OpenPosition(borrower, collateralAsset common.Address, collateralAmount *big.Int, debtAsset common.Address, debtAmount *big.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos, ok := p.positions[borrower]
	if !ok {
		pos = &position{
			collateral: make(map[common.Address]*big.Int),
			debt:       make(map[common.Address]*big.Int),
		}
		p.positions[borrower] = pos
	}
	pos.collateral[collateralAsset] = new(big.Int).Set(collateralAmount)
	pos.debt[debtAsset] = new(big.Int).Set(debtAmount)
	p.led.Mint(collateralAsset, p.addr, collateralAmount)
}

// HealthFactor returns the borrower's health at 1e18 scale, or nil when
// the borrower has no debt.
func (p *ReservePool) HealthFactor(borrower common.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthFactor(borrower)
}

// LiquidationCall validates liquidatability, pulls debtToCover of the
// debt asset from the liquidator and releases the discounted collateral.
// Every refusal is a RejectedError; nothing is retried here.
func (p *ReservePool) LiquidationCall(ctx context.Context, collateralAsset, debtAsset, borrower common.Address, debtToCover *big.Int, liquidator common.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.positions[borrower]
	if !ok {
		return &RejectedError{Reason: fmt.Errorf("no position for borrower %s", borrower.Hex())}
	}
	debt, ok := pos.debt[debtAsset]
	if !ok || debt.Sign() == 0 {
		return &RejectedError{Reason: fmt.Errorf("borrower has no %s debt", debtAsset.Hex())}
	}

	health := p.healthFactor(borrower)
	if health == nil || health.Cmp(big.NewInt(math.HealthPrecision)) >= 0 {
		return &RejectedError{Reason: errors.New("health factor above liquidation threshold")}
	}

	maxLiquidatable := math.MulBps(debt, p.closeFactorBps)
	if debtToCover.Cmp(maxLiquidatable) > 0 {
		return &RejectedError{Reason: fmt.Errorf("debt to cover %s exceeds close factor limit %s", debtToCover, maxLiquidatable)}
	}

	debtPrice, collPrice := p.prices[debtAsset], p.prices[collateralAsset]
	if debtPrice == nil || collPrice == nil || collPrice.Sign() == 0 {
		return &RejectedError{Reason: errors.New("missing asset price")}
	}
	seize := math.SeizableCollateral(debtToCover, debtPrice, collPrice, p.liquidationBonusBps)

	posted := pos.collateral[collateralAsset]
	if posted == nil || posted.Cmp(seize) < 0 {
		return &RejectedError{Reason: fmt.Errorf("posted collateral %s below seizable %s", posted, seize)}
	}

	// Settlement: repayment in, collateral out, books updated.
	if err := p.led.Transfer(debtAsset, liquidator, p.addr, debtToCover); err != nil {
		return &RejectedError{Reason: fmt.Errorf("failed to pull repayment: %w", err)}
	}
	if err := p.led.Transfer(collateralAsset, p.addr, liquidator, seize); err != nil {
		return fmt.Errorf("failed to release collateral: %w", err)
	}
	pos.debt[debtAsset] = new(big.Int).Sub(debt, debtToCover)
	pos.collateral[collateralAsset] = new(big.Int).Sub(posted, seize)

	p.logger.Debug("Liquidation call settled",
		zap.String("borrower", borrower.Hex()),
		zap.String("debt_covered", debtToCover.String()),
		zap.String("collateral_seized", seize.String()))
	return nil
}

// healthFactor computes the borrower's health. Caller holds mu.
func (p *ReservePool) healthFactor(borrower common.Address) *big.Int {
	pos, ok := p.positions[borrower]
	if !ok {
		return nil
	}
	collateralValue := big.NewInt(0)
	for asset, amount := range pos.collateral {
		if price, ok := p.prices[asset]; ok {
			collateralValue.Add(collateralValue, math.MulDiv(amount, price, big.NewInt(math.HealthPrecision)))
		}
	}
	debtValue := big.NewInt(0)
	for asset, amount := range pos.debt {
		if price, ok := p.prices[asset]; ok {
			debtValue.Add(debtValue, math.MulDiv(amount, price, big.NewInt(math.HealthPrecision)))
		}
	}
	return math.HealthFactor(collateralValue, debtValue, p.liquidationThresholdBps)
}
