package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bizplan-workers/pkg/registry"
)

func (a *app) keysCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the section keys in document order",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Build(a.cfg.Remote.BaseURL, time.Now())
			if asJSON {
				return reg.Write(cmd.OutOrStdout())
			}

			w := cmd.OutOrStdout()
			for _, s := range reg.Sections {
				fmt.Fprintf(w, "%2d. %s %s %s\n",
					s.Position,
					color.CyanString("%-24s", s.Key),
					color.WhiteString("%-24s", s.DocumentKey),
					s.Title,
				)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full section registry as JSON")
	return cmd
}

func (a *app) endpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the remote URL of every section",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Build(a.cfg.Remote.BaseURL, time.Now())
			w := cmd.OutOrStdout()
			for _, s := range reg.Sections {
				fmt.Fprintf(w, "%s %s\n", color.CyanString("%-24s", s.Key), s.URL)
			}
			fmt.Fprintf(w, "%s %s/health\n", color.CyanString("%-24s", "health"), reg.BaseURL)
			return nil
		},
	}
}
