// cmd/subscrapexter/inspect.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/valpere/SubScrapexter/internal/archive"
)

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input.mhtml>",
		Short: "Show archive diagnostics (parts, root HTML, channel renderers)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := archive.Inspect(args[0])
			if err != nil {
				return err
			}
			renderInspection(a.stdout, report)
			return nil
		},
	}
}
