// cmd/subscrapexter/template.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valpere/SubScrapexter/internal/config"
	apperrors "github.com/valpere/SubScrapexter/internal/errors"
)

func (a *app) templateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print a YAML configuration template",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateTemplate()
			if err != nil {
				return apperrors.Config(err, "failed to generate template")
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version, build time and git commit",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(a.stdout, versionText())
			return err
		},
	}
}
