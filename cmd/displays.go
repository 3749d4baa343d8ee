// File: cmd/displays.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Svel26/VIO/internal/observability"
	"github.com/Svel26/VIO/internal/screen"
)

// displaysCmd lists connected monitors with their virtual-desktop origins,
// which is what capture.display matches against.
var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List connected displays.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := screen.NewService(screen.NewPlatform(), observability.GetLogger())
		displays := svc.ListDisplays()
		if len(displays) == 0 {
			fmt.Println("no displays found")
			return nil
		}
		for _, d := range displays {
			primary := ""
			if d.IsPrimary() {
				primary = " (primary)"
			}
			fmt.Printf("%s  %q  %dx%d at (%d,%d)  dpr=%.2f%s\n",
				d.ID, d.Name, d.Width, d.Height, d.Left, d.Top, svc.DPR(d), primary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(displaysCmd)
}
