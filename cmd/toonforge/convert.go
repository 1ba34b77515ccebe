package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [id]",
	Short: "Run a declared resource conversion",
	Long: `Runs a conversion a feature declares, e.g. Font of Magic's
create_slot_1 turns two sorcery points into a first-level spell slot.
The exchange is atomic: if the destination pool is full, the source is
not touched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		state, err := rt.service.Convert(ctx, args[0], name)
		if err != nil {
			fail("failed to convert: %v", err)
		}

		names := make([]string, 0, len(state.Pools))
		for poolName := range state.Pools {
			names = append(names, poolName)
		}
		sort.Strings(names)
		for _, poolName := range names {
			pool := state.Pools[poolName]
			fmt.Printf("%s: %d/%d\n", poolName, pool.Current, pool.Maximum)
		}
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("name", "", "conversion name, e.g. create_slot_1")
	_ = convertCmd.MarkFlagRequired("name")
}
