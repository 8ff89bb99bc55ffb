package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/chain"
	"github.com/michaelpento.lv/liquidator/config"
	"github.com/michaelpento.lv/liquidator/utils"
	"github.com/michaelpento.lv/liquidator/utils/metrics"
)

var (
	verifyProvider string
	verifyFactory  string
	verifyRouter   string
	verifyWETH     string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the executor's deploy-time wiring against expectations",
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

		for name, value := range map[string]string{
			"provider": verifyProvider,
			"factory":  verifyFactory,
			"router":   verifyRouter,
			"weth":     verifyWETH,
		} {
			if !common.IsHexAddress(value) {
				return fmt.Errorf("invalid %s address %q", name, value)
			}
		}
		expected, err := config.NewImmutableConfig(
			common.HexToAddress(verifyProvider),
			common.HexToAddress(verifyFactory),
			common.HexToAddress(verifyRouter),
			common.HexToAddress(verifyWETH),
		)
		if err != nil {
			return err
		}

		client, err := chain.NewClient(cmd.Context(), cfg, secure.PrivateKey, log,
			metrics.NewChainMetrics(prometheus.DefaultRegisterer, "liquidator_chain"))
		if err != nil {
			return fmt.Errorf("failed to create chain client: %w", err)
		}
		defer client.Close()

		if err := client.VerifyDeployment(cmd.Context(), expected); err != nil {
			return err
		}

		owner, err := client.Owner(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("Deployment verified",
			zap.String("executor", cfg.ExecutorAddress.Hex()),
			zap.String("owner", owner.Hex()))
		fmt.Printf("executor %s wiring verified, owner %s\n", cfg.ExecutorAddress.Hex(), owner.Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyProvider, "provider", "", "expected lending addresses provider")
	verifyCmd.Flags().StringVar(&verifyFactory, "factory", "", "expected swap factory")
	verifyCmd.Flags().StringVar(&verifyRouter, "router", "", "expected swap router")
	verifyCmd.Flags().StringVar(&verifyWETH, "weth", "", "expected wrapped native token")
	for _, flag := range []string{"provider", "factory", "router", "weth"} {
		_ = verifyCmd.MarkFlagRequired(flag)
	}
}
