package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// PreflightResult carries what the node said about a candidate call.
type PreflightResult struct {
	Success    bool
	GasUsed    uint64
	RevertData []byte
	Err        error
}

// Preflight runs candidate liquidations against the node before any gas
// is spent. A revert here costs one RPC round trip instead of a failed
// on-chain transaction.
type Preflight struct {
	client *ethclient.Client
}

// NewPreflight creates a preflight checker over the given client.
func NewPreflight(client *ethclient.Client) *Preflight {
	return &Preflight{client: client}
}

// Simulate estimates gas for the call and then executes it read-only.
// Node-side reverts come back as a failed result with any revert data
// attached, not as an error; transport failures are errors.
func (p *Preflight) Simulate(ctx context.Context, from, to common.Address, data []byte, gasLimit uint64, gasPrice *big.Int) (*PreflightResult, error) {
	msg := ethereum.CallMsg{
		From:     from,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Value:    big.NewInt(0),
		Data:     data,
	}

	gasUsed, err := p.client.EstimateGas(ctx, msg)
	if err != nil {
		return &PreflightResult{
			Success:    false,
			GasUsed:    gasUsed,
			RevertData: revertData(err),
			Err:        err,
		}, nil
	}

	if _, err := p.client.CallContract(ctx, msg, nil); err != nil {
		return &PreflightResult{
			Success:    false,
			GasUsed:    gasUsed,
			RevertData: revertData(err),
			Err:        err,
		}, nil
	}

	return &PreflightResult{Success: true, GasUsed: gasUsed}, nil
}

// CheckBalance verifies the submitting account can cover the worst-case
// gas bill before an attempt is preflighted at all.
func (p *Preflight) CheckBalance(ctx context.Context, account common.Address, gasLimit uint64, gasPrice *big.Int) error {
	balance, err := p.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return fmt.Errorf("failed to get account balance: %w", err)
	}
	worstCase := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	if balance.Cmp(worstCase) < 0 {
		return fmt.Errorf("account %s holds %s, below worst-case gas bill %s",
			account.Hex(), balance, worstCase)
	}
	return nil
}
