package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// classesCmd represents the classes command
var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the classes in the loaded rulebook data",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		for _, key := range rt.library.ClassKeys() {
			class, err := rt.library.Class(key)
			if err != nil {
				continue
			}
			fmt.Printf("%s\t%s (d%d)\n", key, class.Name, class.HitDie)
		}
	},
}

func init() {
	rootCmd.AddCommand(classesCmd)
}
