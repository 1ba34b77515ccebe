package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toonforge/toonforge/internal/character"
	"github.com/toonforge/toonforge/internal/export"
	charsvc "github.com/toonforge/toonforge/internal/services/character"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new character",
	Long: `Assembles a new character from rulebook documents: applies the race's
ability bonuses and traits, the background's proficiencies, and the
first class level. Ability scores are rolled 4d6-drop-lowest unless
--scores supplies them.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		owner, _ := cmd.Flags().GetString("owner")
		race, _ := cmd.Flags().GetString("race")
		subrace, _ := cmd.Flags().GetString("subrace")
		class, _ := cmd.Flags().GetString("class")
		subclass, _ := cmd.Flags().GetString("subclass")
		background, _ := cmd.Flags().GetString("background")
		scoresFlag, _ := cmd.Flags().GetString("scores")

		scores, err := parseScores(scoresFlag)
		if err != nil {
			fail("%v", err)
		}

		ctx := cmd.Context()
		rt := mustRuntime(ctx)
		defer rt.Close()

		char, err := rt.service.Create(ctx, &charsvc.CreateInput{
			OwnerID:       owner,
			Name:          args[0],
			RaceKey:       race,
			SubraceKey:    subrace,
			ClassKey:      class,
			SubclassKey:   subclass,
			BackgroundKey: background,
			AbilityScores: scores,
		})
		if err != nil {
			fail("failed to create character: %v", err)
		}

		state, err := char.State()
		if err != nil {
			fail("failed to derive character state: %v", err)
		}
		fmt.Printf("Created %s (%s)\n\n", char.Name, char.ID)
		fmt.Println(export.Text(state))
	},
}

// parseScores reads six comma-separated base scores in the order
// STR,DEX,CON,INT,WIS,CHA. Empty input means roll instead.
func parseScores(flag string) (map[character.Ability]int, error) {
	if flag == "" {
		return nil, nil
	}
	parts := strings.Split(flag, ",")
	if len(parts) != len(character.Abilities) {
		return nil, fmt.Errorf("--scores wants %d comma-separated values (STR,DEX,CON,INT,WIS,CHA), got %d", len(character.Abilities), len(parts))
	}
	scores := make(map[character.Ability]int, len(parts))
	for i, part := range parts {
		score, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("--scores value %q is not a number", part)
		}
		scores[character.Abilities[i]] = score
	}
	return scores, nil
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("owner", "", "owner the character belongs to")
	createCmd.Flags().String("race", "", "race key, e.g. half-elf")
	createCmd.Flags().String("subrace", "", "subrace key")
	createCmd.Flags().String("class", "", "class key, e.g. sorcerer")
	createCmd.Flags().String("subclass", "", "subclass key, e.g. draconic")
	createCmd.Flags().String("background", "", "background key, e.g. sage")
	createCmd.Flags().String("scores", "", "base ability scores as STR,DEX,CON,INT,WIS,CHA (default: roll 4d6 drop lowest)")
	_ = createCmd.MarkFlagRequired("owner")
	_ = createCmd.MarkFlagRequired("class")
}
