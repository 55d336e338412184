// Command touchboostd serves the touch boost attributes and talks to a
// running instance.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "touchboostd",
		Short: "Touch boost runtime control daemon",
		Long: `touchboostd exposes three touch boost tunables (boost-enabled, boost-level,
boost-duration-ms) as file-like HTTP attributes, validates every write
against its rule and keeps the last accepted value.

Examples:
  touchboostd serve --config /etc/touchboost.yaml
  touchboostd set boost-level 600000
  touchboostd get boost-duration-ms`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newEnvCmd())
	for _, c := range newClientCmds() {
		root.AddCommand(c)
	}
	return root
}
