package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toonforge/toonforge/internal/export"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a character's derived sheet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		state, err := rt.service.Snapshot(ctx, args[0])
		if err != nil {
			fail("failed to load character: %v", err)
		}
		fmt.Println(export.Text(state))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
