package engine

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/dex"
	"github.com/michaelpento.lv/liquidator/flashloan"
	"github.com/michaelpento.lv/liquidator/ledger"
	"github.com/michaelpento.lv/liquidator/lending"
	"github.com/michaelpento.lv/liquidator/types"
	"github.com/michaelpento.lv/liquidator/utils/metrics"
)

// State is the orchestrator's position in one liquidation attempt.
type State int

const (
	StateIdle State = iota
	StateAwaitingFinancing
	StateLiquidating
	StateConverting
	StateProfitCheck
	StateSettling
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFinancing:
		return "awaiting_financing"
	case StateLiquidating:
		return "liquidating"
	case StateConverting:
		return "converting"
	case StateProfitCheck:
		return "profit_check"
	case StateSettling:
		return "settling"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Orchestrator composes financing, liquidation, conversion and profit
// enforcement into one all-or-nothing unit of work on the host ledger.
// A mutex serializes attempts the way the host serializes transactions;
// on any failure the ledger snapshot taken at entry is reverted in full.
type Orchestrator struct {
	mu sync.Mutex

	access    *AccessController
	financer  *flashloan.Financer
	invoker   *lending.Invoker
	converter *dex.Converter
	led       *ledger.Ledger
	account   common.Address
	logger    *zap.Logger
	metrics   *metrics.LiquidationMetrics

	state State
}

// NewOrchestrator wires the liquidation pipeline for the executing
// entity's account.
func NewOrchestrator(
	access *AccessController,
	financer *flashloan.Financer,
	invoker *lending.Invoker,
	converter *dex.Converter,
	led *ledger.Ledger,
	account common.Address,
	logger *zap.Logger,
	m *metrics.LiquidationMetrics,
) *Orchestrator {
	return &Orchestrator{
		access:    access,
		financer:  financer,
		invoker:   invoker,
		converter: converter,
		led:       led,
		account:   account,
		logger:    logger,
		metrics:   m,
		state:     StateIdle,
	}
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Liquidate executes one atomic liquidation attempt on behalf of caller:
// authorize, borrow, liquidate, convert, enforce profit, repay, and pay
// the residual to the caller. Either the full sequence commits, or the
// ledger is restored to its pre-call state and the error says why.
func (o *Orchestrator) Liquidate(ctx context.Context, caller common.Address, opp *types.LiquidationOpportunity) (*types.LiquidationResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	o.metrics.Attempts.Inc()
	defer func() {
		o.metrics.ExecutionTime.Observe(time.Since(start).Seconds())
	}()

	if err := opp.Validate(); err != nil {
		o.metrics.Aborts.WithLabelValues("invalid_opportunity").Inc()
		return nil, fmt.Errorf("invalid opportunity: %w", err)
	}
	log := o.logger.With(
		zap.String("opportunity", opp.ID()),
		zap.String("borrower", opp.Borrower.Hex()),
		zap.String("caller", caller.Hex()),
	)

	if err := o.access.Authorize(caller); err != nil {
		o.metrics.Aborts.WithLabelValues("unauthorized").Inc()
		return nil, err
	}

	snapshot := o.led.Snapshot()
	result, err := o.run(ctx, caller, opp, log)
	if err != nil {
		o.led.RevertTo(snapshot)
		o.state = StateAborted
		o.metrics.Aborts.WithLabelValues(abortReason(err)).Inc()
		log.Info("Liquidation aborted",
			zap.String("reason", abortReason(err)),
			zap.Error(err))
		o.state = StateIdle
		return nil, err
	}

	o.state = StateDone
	o.metrics.Successes.Inc()
	o.metrics.ProfitTotal.Add(toFloat(result.Profit))
	log.Info("Liquidation completed",
		zap.String("seized", result.SeizedAmount.String()),
		zap.String("amount_out", result.AmountOut.String()),
		zap.String("financing_cost", result.FinancingCost.String()),
		zap.String("profit", result.Profit.String()))
	o.state = StateIdle
	return result, nil
}

// run drives the financed pipeline. Caller holds mu and owns the ledger
// snapshot.
func (o *Orchestrator) run(ctx context.Context, caller common.Address, opp *types.LiquidationOpportunity, log *zap.Logger) (*types.LiquidationResult, error) {
	result := &types.LiquidationResult{Opportunity: opp}

	o.state = StateAwaitingFinancing
	o.metrics.LoanVolume.Add(toFloat(opp.MaxDebtToRepay))

	err := o.financer.RequestLoan(ctx, opp, opp.DebtAsset, opp.MaxDebtToRepay,
		func(ctx context.Context, principal, fee *big.Int) error {
			if o.state != StateAwaitingFinancing {
				return flashloan.ErrNoActiveLoan
			}

			o.state = StateLiquidating
			repay := principal
			if repay.Cmp(opp.MaxDebtToRepay) > 0 {
				repay = opp.MaxDebtToRepay
			}
			seized, err := o.invoker.Execute(ctx, opp.Borrower, opp.DebtAsset, opp.CollateralAsset, repay)
			if err != nil {
				return err
			}
			result.SeizedAmount = seized
			log.Debug("Collateral seized under financing",
				zap.String("seized", seized.String()))

			o.state = StateConverting
			// The swap only has to cover repayment; the profit floor is
			// enforced afterwards so a shortfall reports the exact numbers.
			owed := new(big.Int).Add(principal, fee)
			out, err := o.converter.Convert(ctx, opp.CollateralAsset, seized, opp.DebtAsset, owed)
			if err != nil {
				return err
			}
			result.AmountOut = out
			result.FinancingCost = owed

			o.state = StateProfitCheck
			profit, err := CheckProfit(out, owed, opp.MinProfit)
			if err != nil {
				return err
			}
			result.Profit = profit

			o.state = StateSettling
			if err := o.led.Transfer(opp.DebtAsset, o.account, caller, profit); err != nil {
				return fmt.Errorf("failed to pay out profit: %w", err)
			}
			// Control returns to the financer, which repays principal+fee
			// out of the remaining balance.
			return nil
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// abortReason maps a failure to its metrics label.
func abortReason(err error) string {
	var rejected *lending.RejectedError
	var insufficient *InsufficientProfitError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, flashloan.ErrUntrustedCallback):
		return "untrusted_callback"
	case errors.Is(err, flashloan.ErrNoActiveLoan):
		return "no_active_loan"
	case errors.As(err, &rejected):
		return "liquidation_rejected"
	case errors.Is(err, dex.ErrSlippageExceeded):
		return "slippage_exceeded"
	case errors.As(err, &insufficient):
		return "insufficient_profit"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "other"
	}
}

// toFloat converts a big.Int to the float64 prometheus counters take.
// Precision loss here affects metrics only, never settlement.
func toFloat(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}
