package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/michaelpento.lv/liquidator/utils"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "liquidator",
	Short: "A CLI for executing atomic flash loan liquidations",
	Long: `A CLI that executes lending protocol liquidations financed by flash
loans: repay a borrower's debt, seize the discounted collateral, convert
it back to the debt asset, and keep the spread. Every attempt settles
atomically or not at all.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.liquidator.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig() {
	utils.InitLogger(debug)
}
