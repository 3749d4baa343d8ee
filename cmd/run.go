// File: cmd/run.go
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Svel26/VIO/internal/observability"
	"github.com/Svel26/VIO/internal/service"
)

// runCmd starts an agent session and drives the observe/decide/act loop
// until the oracle concludes or the step budget runs out.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the autonomous agent loop against the configured display.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		manager := service.NewManager(appCfg, service.NewComponentFactory(), logger)
		id, _, err := manager.StartSession()
		if err != nil {
			return err
		}
		defer manager.Close(id)

		if errs := manager.RunAll(ctx); len(errs) > 0 {
			for _, err := range errs {
				logger.Error("Agent run failed.", zap.Error(err))
			}
			return fmt.Errorf("agent run finished with %d error(s)", len(errs))
		}
		logger.Info("Agent run finished.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
