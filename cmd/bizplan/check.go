package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bizplan-workers/internal/bootstrap"
	httpclient "bizplan-workers/internal/common/http"
)

var errRemoteDown = errors.New("remote API is unreachable")

func (a *app) checkCmd() *cobra.Command {
	var (
		healthOnly bool
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check remote API connectivity and probe every section endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			remote := bootstrap.NewRemote(ctx, a.cfg, a.log)
			defer remote.Close()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", color.WhiteString("API:"), a.cfg.Remote.BaseURL)
			if !remote.Client.HasToken() {
				fmt.Fprintln(w, color.YellowString("no credential configured"))
			}

			if !remote.Client.Health(ctx) {
				fmt.Fprintf(w, "%s %s\n", color.RedString("health   DOWN"), remote.Client.URL(httpclient.HealthEndpoint))
				return errRemoteDown
			}
			fmt.Fprintf(w, "%s %s\n", color.GreenString("health   OK  "), remote.Client.URL(httpclient.HealthEndpoint))
			if healthOnly {
				return nil
			}

			failed := 0
			results := remote.Client.ProbeAll(ctx)
			for _, res := range results {
				elapsed := res.Duration.Round(time.Millisecond)
				if res.OK {
					fmt.Fprintf(w, "%s %-24s %s\n", color.GreenString("OK  "), res.Section, elapsed)
					continue
				}
				failed++
				fmt.Fprintf(w, "%s %-24s %s %s\n", color.RedString("FAIL"), res.Section, color.YellowString("%s", res.Failure), res.Detail)
			}

			summary := fmt.Sprintf("%d/%d endpoints OK", len(results)-failed, len(results))
			if failed == 0 {
				fmt.Fprintln(w, color.GreenString(summary))
				return nil
			}
			fmt.Fprintln(w, color.YellowString(summary))
			if strict {
				return fmt.Errorf("%d section endpoints failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&healthOnly, "health-only", false, "Only call the health endpoint")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any section endpoint fails")
	return cmd
}
