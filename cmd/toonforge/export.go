package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toonforge/toonforge/internal/export"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a character sheet",
	Long: `Exports the character's derived sheet. Text and JSON print to stdout;
HTML and PDF write a file under the output directory. PDF export fills
the standard fillable sheet and needs pdftk on PATH.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		state, err := rt.service.Snapshot(ctx, args[0])
		if err != nil {
			fail("failed to load character: %v", err)
		}

		out, err := rt.exporter.Export(state, export.Format(format))
		if err != nil {
			fail("failed to export: %v", err)
		}

		switch export.Format(format) {
		case export.FormatHTML, export.FormatPDF:
			fmt.Printf("Wrote %s\n", out)
		default:
			fmt.Println(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "text", "export format: text, json, html or pdf")
}
