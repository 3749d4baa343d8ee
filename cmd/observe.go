// File: cmd/observe.go
package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/Svel26/VIO/internal/observability"
	"github.com/Svel26/VIO/internal/service"
)

// observeCmd runs a single observation cycle and prints the detected elements
// as JSON. Useful for tuning thresholds and verifying the detector contract
// without involving the oracle.
var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Run one observation cycle and print the detected elements.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		factory := service.NewComponentFactory()
		comps, err := factory.Create(appCfg, logger)
		if err != nil {
			return err
		}

		obs, err := comps.Engine.Observe(cmd.Context())
		if err != nil {
			return fmt.Errorf("observation failed: %w", err)
		}

		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(obs)
	},
}

func init() {
	rootCmd.AddCommand(observeCmd)
}
