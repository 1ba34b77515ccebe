// Package testutils provides shared fixtures for engine tests: a small
// rulebook corpus with the mechanics shapes the engine has to handle.
package testutils

import (
	"github.com/toonforge/toonforge/internal/rulebook"
)

// SorcererClass builds a sorcerer progression exercising spellcasting,
// resource pools, conversions, choice progressions, enhancements, and
// partial recovery.
func SorcererClass() *rulebook.ClassProgression {
	return &rulebook.ClassProgression{
		Key:                      "sorcerer",
		Name:                     "Sorcerer",
		HitDie:                   6,
		PrimaryAbility:           "charisma",
		SavingThrowProficiencies: []string{"constitution", "charisma"},
		WeaponProficiencies:      []string{"daggers", "quarterstaffs"},
		SkillProficiencies:       []string{"arcana", "persuasion"},
		SubclassLevel:            1,
		Features: map[int][]rulebook.Feature{
			1: {
				{
					Name:        "Spellcasting",
					Description: "You can cast sorcerer spells using Charisma.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type:    rulebook.MechanicSpellcasting,
						Ability: "charisma",
						SpellSlots: map[int]rulebook.ScalingTable{
							1: {1: 2, 2: 3, 3: 4},
							2: {3: 2, 4: 3},
							3: {5: 2, 6: 3},
						},
					},
				},
			},
			2: {
				{
					Name:        "Font of Magic",
					Description: "You tap into a wellspring of magic within yourself, represented by sorcery points.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type: rulebook.MechanicResource,
						Resource: &rulebook.ResourceSpec{
							Name:     "sorcery_points",
							Maximum:  rulebook.FormulaAmount("sorcerer_level"),
							Recovery: rulebook.RestLong,
						},
						Conversions: []rulebook.ConversionRate{
							{Name: "create_slot_1", FromPool: "sorcery_points", FromAmount: 2, ToPool: "spell_slots_1", ToAmount: 1},
							{Name: "create_slot_2", FromPool: "sorcery_points", FromAmount: 3, ToPool: "spell_slots_2", ToAmount: 1},
							{Name: "create_slot_3", FromPool: "sorcery_points", FromAmount: 5, ToPool: "spell_slots_3", ToAmount: 1},
							{Name: "convert_slot_1", FromPool: "spell_slots_1", FromAmount: 1, ToPool: "sorcery_points", ToAmount: 1},
							{Name: "convert_slot_2", FromPool: "spell_slots_2", FromAmount: 1, ToPool: "sorcery_points", ToAmount: 2},
							{Name: "convert_slot_3", FromPool: "spell_slots_3", FromAmount: 1, ToPool: "sorcery_points", ToAmount: 3},
						},
					},
				},
			},
			3: {
				{
					Name:        "Metamagic",
					Description: "You gain the ability to twist your spells to suit your needs.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type:        rulebook.MechanicChoice,
						Progression: rulebook.ScalingTable{3: 2, 10: 3, 17: 4},
						Options: []rulebook.ChoiceOption{
							{Name: "Quickened Spell", CostText: "2 sorcery points"},
							{Name: "Subtle Spell", CostText: "1 sorcery point"},
							{Name: "Twinned Spell", CostText: "1 sorcery point"},
						},
					},
				},
			},
			4: {
				{
					Name: "Ability Score Improvement",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type: rulebook.MechanicAbilityScoreImprovement,
					},
				},
			},
			20: {
				{
					Name:        "Sorcerous Restoration",
					Description: "You regain 4 expended sorcery points whenever you finish a short rest.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type: rulebook.MechanicResourceImprovement,
						Resource: &rulebook.ResourceSpec{
							Name:          "sorcery_points",
							Maximum:       rulebook.FormulaAmount("sorcerer_level"),
							Recovery:      rulebook.RestLong,
							RecoverAmount: "4",
							RecoverOn:     rulebook.RestShort,
						},
					},
				},
			},
		},
		Subclasses: []rulebook.Subclass{
			{
				Key:  "draconic",
				Name: "Draconic Bloodline",
				Features: map[int][]rulebook.Feature{
					1: {
						{
							Name:        "Draconic Resilience",
							Description: "Dragon magic suffuses your body: your hit point maximum increases and your skin hardens.",
							Mechanics: &rulebook.MechanicsDescriptor{
								Type: rulebook.MechanicPassive,
								Effects: []rulebook.EffectSpec{
									{Kind: rulebook.EffectHPBonusPerLevel, Value: rulebook.LiteralAmount(1)},
									{
										Kind:      rulebook.EffectACBonus,
										Value:     rulebook.FormulaAmount("13 + dexterity_modifier"),
										Condition: "unarmored",
										Target:    "base_ac",
									},
								},
							},
						},
					},
					6: {
						{
							Name:        "Elemental Affinity",
							Description: "When you cast a spell that deals damage of your draconic ancestry's type, add your Charisma modifier to one damage roll.",
							Mechanics: &rulebook.MechanicsDescriptor{
								Type: rulebook.MechanicPassive,
								Effects: []rulebook.EffectSpec{
									{
										Kind:       rulebook.EffectSpellDamageBonus,
										Value:      rulebook.FormulaAmount("charisma_modifier"),
										Condition:  "ancestry_damage_type",
										DamageType: "fire",
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// BarbarianClass builds a barbarian progression exercising scaling-table
// resources, toggled effects, and a passive_enhancement chain.
func BarbarianClass() *rulebook.ClassProgression {
	return &rulebook.ClassProgression{
		Key:                      "barbarian",
		Name:                     "Barbarian",
		HitDie:                   12,
		PrimaryAbility:           "strength",
		SavingThrowProficiencies: []string{"strength", "constitution"},
		ArmorProficiencies:       []string{"light armor", "medium armor", "shields"},
		WeaponProficiencies:      []string{"simple weapons", "martial weapons"},
		SkillProficiencies:       []string{"athletics", "survival"},
		SubclassLevel:            3,
		Features: map[int][]rulebook.Feature{
			1: {
				{
					Name:        "Rage",
					Description: "In battle, you fight with primal ferocity.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type: rulebook.MechanicResource,
						Resource: &rulebook.ResourceSpec{
							Name:     "rage_charges",
							Maximum:  rulebook.ScalingAmount(rulebook.ScalingTable{1: 2, 3: 3, 6: 4, 12: 5, 17: 6}),
							Recovery: rulebook.RestLong,
						},
						Effects: []rulebook.EffectSpec{
							{
								Kind:       rulebook.EffectDamageBonus,
								Value:      rulebook.ScalingAmount(rulebook.ScalingTable{1: 2, 9: 3, 16: 4}),
								Condition:  "raging",
								DamageType: "melee",
							},
							{Kind: rulebook.EffectResistance, Condition: "raging", DamageType: "bludgeoning"},
							{Kind: rulebook.EffectResistance, Condition: "raging", DamageType: "piercing"},
							{Kind: rulebook.EffectResistance, Condition: "raging", DamageType: "slashing"},
						},
					},
				},
				{
					Name:        "Unarmored Defense",
					Description: "While not wearing armor, your AC equals 10 + your Dexterity modifier + your Constitution modifier.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type: rulebook.MechanicPassive,
						Effects: []rulebook.EffectSpec{
							{
								Kind:      rulebook.EffectACBonus,
								Value:     rulebook.FormulaAmount("10 + dexterity_modifier + constitution_modifier"),
								Condition: "unarmored",
								Target:    "base_ac",
							},
						},
					},
				},
			},
			5: {
				{
					Name:        "Fast Movement",
					Description: "Your speed increases by 10 feet while you aren't wearing heavy armor.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type: rulebook.MechanicPassive,
						Effects: []rulebook.EffectSpec{
							{Kind: rulebook.EffectMovement, Value: rulebook.LiteralAmount(10), Condition: "not_heavy_armor"},
						},
					},
				},
			},
			15: {
				{
					Name:        "Persistent Rage",
					Description: "Your rage is so fierce that it ends early only if you fall unconscious or choose to end it.",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type:     rulebook.MechanicPassiveEnhancement,
						Enhances: "Rage",
						Effects: []rulebook.EffectSpec{
							{Kind: rulebook.EffectCondition, Condition: "raging", Target: "persistent"},
						},
					},
				},
			},
		},
	}
}

// HumanRace builds a race document with flat ability bonuses
func HumanRace() *rulebook.Race {
	return &rulebook.Race{
		Key:   "human",
		Name:  "Human",
		Speed: 30,
		AbilityBonuses: map[string]int{
			"strength": 1, "dexterity": 1, "constitution": 1,
			"intelligence": 1, "wisdom": 1, "charisma": 1,
		},
		Languages: []string{"Common"},
		Traits: []rulebook.Trait{
			{
				Name:        "Versatility",
				Description: "Humans gain +1 to all ability scores.",
			},
		},
	}
}

// HalfElfRace builds a race with a subrace and trait grants
func HalfElfRace() *rulebook.Race {
	return &rulebook.Race{
		Key:            "half-elf",
		Name:           "Half-Elf",
		Speed:          30,
		AbilityBonuses: map[string]int{"charisma": 2},
		Languages:      []string{"Common", "Elvish"},
		Traits: []rulebook.Trait{
			{
				Name:        "Fey Ancestry",
				Description: "You have advantage on saving throws against being charmed, and magic can't put you to sleep.",
				Mechanics: &rulebook.MechanicsDescriptor{
					Type: rulebook.MechanicPassive,
					Effects: []rulebook.EffectSpec{
						{Kind: rulebook.EffectAdvantage, Condition: "vs_charm", Target: "saving_throw"},
					},
				},
			},
			{
				Name:   "Skill Versatility",
				Grants: &rulebook.TraitGrants{Skills: []string{"persuasion", "deception"}},
			},
		},
	}
}

// SageBackground builds a background with proficiency grants and a feature
func SageBackground() *rulebook.Background {
	return &rulebook.Background{
		Key:                "sage",
		Name:               "Sage",
		SkillProficiencies: []string{"arcana", "history"},
		Languages:          []string{"Draconic", "Celestial"},
		Feature: &rulebook.Feature{
			Name:        "Researcher",
			Description: "When you attempt to learn or recall a piece of lore, you often know where to find it.",
		},
	}
}

// Library bundles the fixture documents the way the loader would
func Library() *rulebook.Library {
	return &rulebook.Library{
		Classes: map[string]*rulebook.ClassProgression{
			"sorcerer":  SorcererClass(),
			"barbarian": BarbarianClass(),
		},
		Races: map[string]*rulebook.Race{
			"human":    HumanRace(),
			"half-elf": HalfElfRace(),
		},
		Backgrounds: map[string]*rulebook.Background{
			"sage": SageBackground(),
		},
	}
}
