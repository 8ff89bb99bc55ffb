package cmd

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/config"
	"github.com/michaelpento.lv/liquidator/dex"
	"github.com/michaelpento.lv/liquidator/engine"
	"github.com/michaelpento.lv/liquidator/flashloan"
	"github.com/michaelpento.lv/liquidator/ledger"
	"github.com/michaelpento.lv/liquidator/lending"
	"github.com/michaelpento.lv/liquidator/types"
	"github.com/michaelpento.lv/liquidator/utils"
	"github.com/michaelpento.lv/liquidator/utils/math"
	"github.com/michaelpento.lv/liquidator/utils/metrics"
)

var (
	simDebtAmount   string
	simCollateral   string
	simDebtReserve  string
	simCollReserve  string
	simMinProfit    string
	simFlashFunding string
)

// Fixed actors for the in-process run. The addresses only need to be
// distinct; nothing leaves the local ledger.
var (
	simDebtAsset  = common.HexToAddress("0x0000000000000000000000000000000000000d01")
	simCollAsset  = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	simOwner      = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	simExecutor   = common.HexToAddress("0x0000000000000000000000000000000000000e01")
	simFlashVenue = common.HexToAddress("0x0000000000000000000000000000000000000f01")
	simLendVenue  = common.HexToAddress("0x0000000000000000000000000000000000000b01")
	simPairVenue  = common.HexToAddress("0x0000000000000000000000000000000000000901")
	simBorrower   = common.HexToAddress("0x0000000000000000000000000000000000000801")
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one liquidation attempt against in-process venues",
	Long: `Builds a local ledger with a flash lender, a lending pool holding one
unhealthy position, and a constant-product pair, then runs a full
liquidation attempt through the engine and prints the outcome. No RPC
endpoint is touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			// The simulation has no chain dependencies; defaults suffice
			// when no config file is present.
			cfg = config.DefaultConfig()
		}

		amounts, err := parseSimAmounts(cfg)
		if err != nil {
			return err
		}

		led := ledger.New()
		led.Mint(simDebtAsset, simFlashVenue, amounts.flashFunding)

		flash := flashloan.NewPool(simFlashVenue, led, cfg.FlashLoanFeeBps, log)
		pool := lending.NewReservePool(simLendVenue, led,
			cfg.LiquidationThresholdBps, cfg.CloseFactorBps, cfg.LiquidationBonusBps, log)
		parity := big.NewInt(math.HealthPrecision)
		pool.SetPrice(simDebtAsset, parity)
		pool.SetPrice(simCollAsset, parity)
		pool.OpenPosition(simBorrower, simCollAsset, amounts.collateral, simDebtAsset, amounts.debt)

		pair := dex.NewPair(simPairVenue, simCollAsset, simDebtAsset, led, log)
		pair.AddLiquidity(amounts.collReserve, amounts.debtReserve)

		access := engine.NewAccessController(simOwner)
		financer := flashloan.NewFinancer(flash, simExecutor, led, log)
		invoker := lending.NewInvoker(pool, led, simExecutor, log)
		converter := dex.NewConverter(pair, led, simExecutor, log)
		orch := engine.NewOrchestrator(access, financer, invoker, converter, led, simExecutor, log,
			metrics.NewLiquidationMetrics(prometheus.NewRegistry(), "liquidator_sim"))

		health := pool.HealthFactor(simBorrower)
		log.Info("Simulated position opened",
			zap.String("health_factor", health.String()),
			zap.String("debt", amounts.debt.String()),
			zap.String("collateral", amounts.collateral.String()))

		opp := &types.LiquidationOpportunity{
			Borrower:        simBorrower,
			DebtAsset:       simDebtAsset,
			CollateralAsset: simCollAsset,
			MaxDebtToRepay:  amounts.debt,
			MinProfit:       amounts.minProfit,
		}
		result, err := orch.Liquidate(cmd.Context(), simOwner, opp)
		if err != nil {
			fmt.Printf("attempt aborted: %v\n", err)
			return nil
		}

		fmt.Printf("seized:         %s\n", result.SeizedAmount)
		fmt.Printf("amount out:     %s\n", result.AmountOut)
		fmt.Printf("financing cost: %s\n", result.FinancingCost)
		fmt.Printf("profit:         %s\n", result.Profit)
		return nil
	},
}

type simAmounts struct {
	debt         *big.Int
	collateral   *big.Int
	debtReserve  *big.Int
	collReserve  *big.Int
	minProfit    *big.Int
	flashFunding *big.Int
}

func parseSimAmounts(cfg *config.Config) (*simAmounts, error) {
	parse := func(name, value string) (*big.Int, error) {
		v, ok := new(big.Int).SetString(value, 10)
		if !ok || v.Sign() <= 0 {
			return nil, fmt.Errorf("invalid %s %q", name, value)
		}
		return v, nil
	}

	debt, err := parse("debt amount", simDebtAmount)
	if err != nil {
		return nil, err
	}
	collateral, err := parse("collateral amount", simCollateral)
	if err != nil {
		return nil, err
	}
	debtReserve, err := parse("debt reserve", simDebtReserve)
	if err != nil {
		return nil, err
	}
	collReserve, err := parse("collateral reserve", simCollReserve)
	if err != nil {
		return nil, err
	}
	flashFunding, err := parse("flash funding", simFlashFunding)
	if err != nil {
		return nil, err
	}

	minProfit := new(big.Int).Set(cfg.MinProfitThreshold)
	if simMinProfit != "" {
		if minProfit, err = parse("min profit", simMinProfit); err != nil {
			return nil, err
		}
	}

	return &simAmounts{
		debt:         debt,
		collateral:   collateral,
		debtReserve:  debtReserve,
		collReserve:  collReserve,
		minProfit:    minProfit,
		flashFunding: flashFunding,
	}, nil
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simDebtAmount, "debt", "100000", "borrower debt, native units")
	simulateCmd.Flags().StringVar(&simCollateral, "collateral", "105000", "borrower collateral, native units")
	simulateCmd.Flags().StringVar(&simDebtReserve, "debt-reserve", "10000000", "pair debt-asset reserve")
	simulateCmd.Flags().StringVar(&simCollReserve, "coll-reserve", "10000000", "pair collateral-asset reserve")
	simulateCmd.Flags().StringVar(&simMinProfit, "min-profit", "1", "minimum acceptable profit (default from config when empty)")
	simulateCmd.Flags().StringVar(&simFlashFunding, "flash-funding", "10000000", "flash lender liquidity")
}
