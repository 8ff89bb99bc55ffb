package cmd

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/chain"
	"github.com/michaelpento.lv/liquidator/config"
	"github.com/michaelpento.lv/liquidator/types"
	"github.com/michaelpento.lv/liquidator/utils"
	"github.com/michaelpento.lv/liquidator/utils/metrics"
)

var (
	liquidateBorrower   string
	liquidateDebt       string
	liquidateCollateral string
	liquidateAmount     string
	liquidateMinProfit  string
	liquidatePool       string
)

var liquidateCmd = &cobra.Command{
	Use:   "liquidate",
	Short: "Submit a liquidation to the deployed executor",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		secure, err := config.LoadSecureConfig()
		if err != nil {
			return fmt.Errorf("failed to load credentials: %w", err)
		}

		opp, pool, err := buildOpportunity(cfg)
		if err != nil {
			return err
		}

		client, err := chain.NewClient(cmd.Context(), cfg, secure.PrivateKey, log,
			metrics.NewChainMetrics(prometheus.DefaultRegisterer, "liquidator_chain"))
		if err != nil {
			return fmt.Errorf("failed to create chain client: %w", err)
		}
		defer client.Close()

		tx, err := client.SubmitLiquidation(cmd.Context(), opp, pool)
		if err != nil {
			return err
		}

		log.Info("Liquidation transaction sent", zap.String("tx", tx.Hash().Hex()))
		fmt.Printf("submitted %s\n", tx.Hash().Hex())
		return nil
	},
}

// buildOpportunity resolves the flag inputs against the asset registry
// when one is configured, so callers can use symbols or raw addresses.
func buildOpportunity(cfg *config.Config) (*types.LiquidationOpportunity, common.Address, error) {
	resolve := func(input string) (common.Address, error) {
		if cfg.AssetsFile != "" {
			registry, err := config.LoadAssets(cfg.AssetsFile)
			if err != nil {
				return common.Address{}, err
			}
			return registry.Resolve(input)
		}
		if !common.IsHexAddress(input) {
			return common.Address{}, fmt.Errorf("%q is not a hex address and no assets file is configured", input)
		}
		return common.HexToAddress(input), nil
	}

	if !common.IsHexAddress(liquidateBorrower) {
		return nil, common.Address{}, fmt.Errorf("invalid borrower address %q", liquidateBorrower)
	}
	if !common.IsHexAddress(liquidatePool) {
		return nil, common.Address{}, fmt.Errorf("invalid pool address %q", liquidatePool)
	}
	debt, err := resolve(liquidateDebt)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid debt asset: %w", err)
	}
	coll, err := resolve(liquidateCollateral)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid collateral asset: %w", err)
	}

	amount, ok := new(big.Int).SetString(liquidateAmount, 10)
	if !ok {
		return nil, common.Address{}, fmt.Errorf("invalid debt amount %q", liquidateAmount)
	}
	minProfit := new(big.Int).Set(cfg.MinProfitThreshold)
	if liquidateMinProfit != "" {
		minProfit, ok = new(big.Int).SetString(liquidateMinProfit, 10)
		if !ok {
			return nil, common.Address{}, fmt.Errorf("invalid min profit %q", liquidateMinProfit)
		}
	}

	opp := &types.LiquidationOpportunity{
		Borrower:        common.HexToAddress(liquidateBorrower),
		DebtAsset:       debt,
		CollateralAsset: coll,
		MaxDebtToRepay:  amount,
		MinProfit:       minProfit,
	}
	if err := opp.Validate(); err != nil {
		return nil, common.Address{}, err
	}
	return opp, common.HexToAddress(liquidatePool), nil
}

func init() {
	rootCmd.AddCommand(liquidateCmd)
	liquidateCmd.Flags().StringVar(&liquidateBorrower, "borrower", "", "borrower address to liquidate")
	liquidateCmd.Flags().StringVar(&liquidateDebt, "debt", "", "debt asset (symbol or address)")
	liquidateCmd.Flags().StringVar(&liquidateCollateral, "collateral", "", "collateral asset (symbol or address)")
	liquidateCmd.Flags().StringVar(&liquidateAmount, "amount", "", "debt amount to repay, native units")
	liquidateCmd.Flags().StringVar(&liquidateMinProfit, "min-profit", "", "minimum acceptable profit (default from config)")
	liquidateCmd.Flags().StringVar(&liquidatePool, "pool", "", "swap pool for the collateral conversion")
	for _, flag := range []string{"borrower", "debt", "collateral", "amount", "pool"} {
		_ = liquidateCmd.MarkFlagRequired(flag)
	}
}
