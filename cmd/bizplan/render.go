package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/render"
	ibp "bizplan-workers/internal/workers/businessplan/import-business-plan"
	rbp "bizplan-workers/internal/workers/businessplan/render-business-plan"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		out        string
		title      string
		sections   []string
		isDocument bool
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document to a printable HTML file",
		Long: `Render imports the fallback file (or reads an imported document with
--document) and writes one fixed-size page per section to an HTML file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			var doc *businessplan.Document
			if isDocument {
				doc, err = documentFromImport(data)
			} else {
				var imported *ibp.Output
				if imported, err = a.runImport(ctx, data, offline); err == nil {
					doc = imported.Document
				}
			}
			if err != nil {
				return err
			}

			cfg := rbp.ConfigFromWorker(a.cfg.Workers[rbp.TaskType], a.cfg.Render)
			if title != "" {
				cfg.Title = title
			}
			h := rbp.NewHandler(cfg, a.log, render.New(), nil)
			output, err := h.Execute(ctx, &rbp.Input{Document: doc, Sections: sections})
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write([]byte(output.HTML))
				return err
			}
			if err := os.WriteFile(out, []byte(output.HTML), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "rendered %d pages -> %s\n", len(output.Pages), out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "business-plan.html", `Output HTML file ("-" for stdout)`)
	f.StringVar(&title, "title", "", "Document title")
	f.StringSliceVar(&sections, "sections", nil, "Render only these sections")
	f.BoolVar(&isDocument, "document", false, "Input is an imported document, skip the import")
	f.BoolVar(&offline, "offline", false, "Skip the remote API and use the fallback only")
	return cmd
}

// documentFromImport accepts either the JSON written by "bizplan import" or a
// bare document object.
func documentFromImport(data map[string]interface{}) (*businessplan.Document, error) {
	if nested, ok := data["document"].(map[string]interface{}); ok {
		data = nested
	}
	return businessplan.DocumentFromMap(data)
}
