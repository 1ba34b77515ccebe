package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toonforge/toonforge/internal/export"
)

// conditionCmd represents the condition command
var conditionCmd = &cobra.Command{
	Use:   "condition [id] [name]",
	Short: "Toggle an effect-gating condition",
	Long: `Flips a condition flag such as "raging" or "unarmored" and shows the
resulting sheet. Effects gated on the condition activate or deactivate
accordingly.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		off, _ := cmd.Flags().GetBool("off")

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		state, err := rt.service.SetCondition(ctx, args[0], args[1], !off)
		if err != nil {
			fail("failed to set condition: %v", err)
		}
		fmt.Println(export.Text(state))
	},
}

func init() {
	rootCmd.AddCommand(conditionCmd)
	conditionCmd.Flags().Bool("off", false, "clear the condition instead of setting it")
}
