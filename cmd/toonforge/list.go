package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List an owner's characters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		owner, _ := cmd.Flags().GetString("owner")

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		chars, err := rt.service.List(ctx, owner)
		if err != nil {
			fail("failed to list characters: %v", err)
		}
		if len(chars) == 0 {
			fmt.Printf("No characters for owner %s\n", owner)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLEVEL\tCLASSES\tHP")
		for _, char := range chars {
			var classes []string
			for _, entry := range char.Classes {
				classes = append(classes, fmt.Sprintf("%s %d", entry.Progression.Name, entry.Level))
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d/%d\n",
				char.ID, char.Name, char.Level(),
				strings.Join(classes, ", "),
				char.CurrentHitPoints, char.MaxHitPoints)
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("owner", "", "owner whose characters to list")
	_ = listCmd.MarkFlagRequired("owner")
}
