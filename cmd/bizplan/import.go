package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	ibp "bizplan-workers/internal/workers/businessplan/import-business-plan"
)

func (a *app) importCmd() *cobra.Command {
	var (
		out     string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a document, merging remote data over the fallback file",
		Long: `Import reads a fallback document (JSON or YAML, "-" for stdin), fetches
every section from the remote API and writes the merged document as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			output, err := a.runImport(cmd.Context(), data, offline)
			if err != nil {
				return err
			}

			if out != "" && out != "-" {
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "imported %d sections via %s path -> %s\n",
					output.Document.Len(), output.ImportPath, out)
			}
			return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(output)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the remote API and use the fallback only")
	return cmd
}

// runImport validates and imports data with the same rules as the
// import-business-plan job.
func (a *app) runImport(ctx context.Context, data map[string]interface{}, offline bool) (*ibp.Output, error) {
	imp, closeRemote := a.newImporter(ctx, offline)
	defer closeRemote()

	cfg := ibp.ConfigFromWorker(a.cfg.Workers[ibp.TaskType], a.cfg.Remote)
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	h := ibp.NewHandler(cfg, a.log, imp, nil)
	return h.Execute(ctx, &ibp.Input{RequestId: uuid.NewString(), Data: data})
}
