package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toonforge/toonforge/internal/export"
)

// levelupCmd represents the levelup command
var levelupCmd = &cobra.Command{
	Use:   "levelup [id]",
	Short: "Add one level in a class the character already has",
	Long: `Rolls the class hit die for the gained hit points and rebuilds every
derived value at the new level. Use --class to pick the class when the
character has more than one.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		class, _ := cmd.Flags().GetString("class")

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		state, err := rt.service.LevelUp(ctx, args[0], class)
		if err != nil {
			fail("failed to level up: %v", err)
		}
		fmt.Printf("%s is now level %d\n\n", state.Name, state.Level)
		fmt.Println(export.Text(state))
	},
}

func init() {
	rootCmd.AddCommand(levelupCmd)
	levelupCmd.Flags().String("class", "", "class to gain the level in")
	_ = levelupCmd.MarkFlagRequired("class")
}
