package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/config"
	"github.com/michaelpento.lv/liquidator/dex/uniswap"
	"github.com/michaelpento.lv/liquidator/utils"
)

var (
	quoteFactory string
	quoteAmount  string
	quotePath    string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Estimate the conversion output for a swap path",
	Long: `Derives the pair addresses for a swap path from the factory, reads
their live reserves, and quotes the output of swapping the given amount.
Useful for sizing min-profit before submitting a liquidation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !common.IsHexAddress(quoteFactory) {
			return fmt.Errorf("invalid factory address %q", quoteFactory)
		}

		amount, ok := new(big.Int).SetString(quoteAmount, 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("invalid amount %q", quoteAmount)
		}

		var path []common.Address
		for _, hop := range strings.Split(quotePath, ",") {
			hop = strings.TrimSpace(hop)
			if !common.IsHexAddress(hop) {
				return fmt.Errorf("invalid path token %q", hop)
			}
			path = append(path, common.HexToAddress(hop))
		}
		if len(path) < 2 {
			return fmt.Errorf("path needs at least two tokens")
		}

		client, err := ethclient.DialContext(cmd.Context(), cfg.RPCEndpoint)
		if err != nil {
			return fmt.Errorf("failed to dial RPC endpoint: %w", err)
		}
		defer client.Close()

		quoter, err := uniswap.NewQuoter(client, common.HexToAddress(quoteFactory))
		if err != nil {
			return err
		}

		out, err := quoter.EstimateReturn(cmd.Context(), amount, path)
		if err != nil {
			return fmt.Errorf("failed to estimate return: %w", err)
		}

		log.Info("Quote computed",
			zap.String("amount_in", amount.String()),
			zap.String("amount_out", out.String()),
			zap.Int("hops", len(path)-1))
		fmt.Printf("amount out: %s (pair %s)\n", out, quoter.PairFor(path[0], path[1]).Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().StringVar(&quoteFactory, "factory", "", "pair factory address")
	quoteCmd.Flags().StringVar(&quoteAmount, "amount", "", "input amount, native units")
	quoteCmd.Flags().StringVar(&quotePath, "path", "", "comma-separated token addresses")
	for _, flag := range []string{"factory", "amount", "path"} {
		_ = quoteCmd.MarkFlagRequired(flag)
	}
}
