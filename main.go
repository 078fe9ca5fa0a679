package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/restaurant-ops/config"
	"github.com/yeremiapane/restaurant-ops/utils"
)

var cfg config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restaurant-ops",
	Short: "Table, command and cash session service for restaurants.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		utils.InitLogger(cfg.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
