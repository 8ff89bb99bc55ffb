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
	whitelistCaller string
	whitelistRevoke bool
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Grant or revoke a caller on the executor's whitelist",
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
		if !common.IsHexAddress(whitelistCaller) {
			return fmt.Errorf("invalid caller address %q", whitelistCaller)
		}

		client, err := chain.NewClient(cmd.Context(), cfg, secure.PrivateKey, log,
			metrics.NewChainMetrics(prometheus.DefaultRegisterer, "liquidator_chain"))
		if err != nil {
			return fmt.Errorf("failed to create chain client: %w", err)
		}
		defer client.Close()

		tx, err := client.SetWhitelistedCaller(cmd.Context(), common.HexToAddress(whitelistCaller), !whitelistRevoke)
		if err != nil {
			return err
		}

		log.Info("Whitelist update sent",
			zap.String("tx", tx.Hash().Hex()),
			zap.String("caller", whitelistCaller),
			zap.Bool("allowed", !whitelistRevoke))
		fmt.Printf("submitted %s\n", tx.Hash().Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whitelistCmd)
	whitelistCmd.Flags().StringVar(&whitelistCaller, "caller", "", "caller address to update")
	whitelistCmd.Flags().BoolVar(&whitelistRevoke, "revoke", false, "revoke instead of grant")
	_ = whitelistCmd.MarkFlagRequired("caller")
}
