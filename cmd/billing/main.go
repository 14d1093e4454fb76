package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dll-community/billing/internal/interfaces/cli/migrate"
	"github.com/dll-community/billing/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "billing",
		Short: "Order, payment, and subscription lifecycle service",
		Long:  `Billing manages subscription orders, payment gateway integration, and the subscription lifecycle.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
