// Package cli implements the odataquery command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the released version, set at build time with
// -ldflags "-X github.com/nlstn/odataquery/internal/cli.Version=...".
var Version = "dev"

// NewRootCmd returns the odataquery command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "odataquery",
		Short: "Build OData query URLs",
		Long: `Build OData v4 query URLs with $select, $expand, $orderby, $top, $skip,
$count and $filter from flags or a YAML query definition.

Examples:
  # Select and page
  odataquery build http://host/odata/Users --select Name,Age --top 10

  # Load filters from a definition file and override the page size
  odataquery build --file users.yaml --top 50`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newBuildCmd(&logLevel))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "odataquery version %s\n", Version)
			return err
		},
	}
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
