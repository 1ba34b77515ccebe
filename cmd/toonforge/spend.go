package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// spendCmd represents the spend command
var spendCmd = &cobra.Command{
	Use:   "spend [id]",
	Short: "Spend points from a resource pool",
	Long: `Decrements a resource pool, e.g. marking a spell slot used or spending
sorcery points. Fails without changing anything when the pool holds
fewer points than the spend.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pool, _ := cmd.Flags().GetString("pool")
		amount, _ := cmd.Flags().GetInt("amount")

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		state, err := rt.service.SpendResource(ctx, args[0], pool, amount)
		if err != nil {
			fail("failed to spend: %v", err)
		}
		p := state.Pools[pool]
		fmt.Printf("%s: %d/%d\n", pool, p.Current, p.Maximum)
	},
}

func init() {
	rootCmd.AddCommand(spendCmd)
	spendCmd.Flags().String("pool", "", "resource pool name, e.g. sorcery_points or spell_slots_1")
	spendCmd.Flags().Int("amount", 1, "points to spend")
	_ = spendCmd.MarkFlagRequired("pool")
}
