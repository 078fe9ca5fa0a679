package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/restaurant-ops/utils"
)

var tokenArgs struct {
	employeeID uint
	companyID  uint
	role       string
}

// tokenCmd mints a bearer token for local testing. Real deployments get
// tokens from their identity provider, signed with the same JWT_SECRET.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed bearer token for an employee.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		if tokenArgs.employeeID == 0 || tokenArgs.companyID == 0 {
			return errors.New("--employee and --company are required")
		}
		tok, err := utils.GenerateToken([]byte(cfg.JWTSecret), tokenArgs.employeeID, tokenArgs.companyID, tokenArgs.role, cfg.TokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().UintVar(&tokenArgs.employeeID, "employee", 0, "employee id")
	tokenCmd.Flags().UintVar(&tokenArgs.companyID, "company", 0, "company id")
	tokenCmd.Flags().StringVar(&tokenArgs.role, "role", "waiter", "role: waiter, cashier, chef or admin")
}
