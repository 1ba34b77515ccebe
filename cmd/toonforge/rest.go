package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/toonforge/toonforge/internal/rulebook"
)

// restCmd represents the rest command
var restCmd = &cobra.Command{
	Use:   "rest [id]",
	Short: "Apply a short or long rest",
	Long: `Recovers resource pools according to each one's recovery tier. A long
rest also restores hit points to maximum. Short-rest pools recover on
both tiers; long-rest pools only on a long rest.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tier, _ := cmd.Flags().GetString("tier")

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		state, err := rt.service.Rest(ctx, args[0], rulebook.RestTier(tier))
		if err != nil {
			fail("failed to rest: %v", err)
		}

		fmt.Printf("%s finished a %s\n", state.Name, tier)
		fmt.Printf("Hit Points: %d/%d\n", state.CurrentHitPoints, state.MaxHitPoints)
		names := make([]string, 0, len(state.Pools))
		for name := range state.Pools {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pool := state.Pools[name]
			fmt.Printf("%s: %d/%d\n", name, pool.Current, pool.Maximum)
		}
	},
}

func init() {
	rootCmd.AddCommand(restCmd)
	restCmd.Flags().String("tier", "long_rest", "rest tier: short_rest or long_rest")
}
