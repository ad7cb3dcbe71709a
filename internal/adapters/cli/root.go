package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orders",
		Short: "Orders CLI - Place and manage customer orders",
		Long: `Orders CLI places, inspects, and cancels customer orders.

Every command dispatches through the in-process mediator: the CLI builds
a request value and sends it, and the registered handler does the work.

Examples:
  orders place --email ada@example.com --sku SKU-100 --quantity 2 --unit-price 1500
  orders get <order-id>
  orders cancel <order-id>
  orders list --status PAID --limit 20`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (searches ./config.yaml by default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewPlaceCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewCancelCommand())
	rootCmd.AddCommand(NewListCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
