package engine

import (
	"fmt"
	"math/rand/v2"
)

var (
	seedAdjectives = []string{"BRAVE", "GOLDEN", "MINER", "CRAFTY", "BLOCKY", "DIAMOND", "ANCIENT", "HIDDEN", "ENDER"}
	seedMobs       = []string{"STEVE", "CREEPER", "ZOMBIE", "PIGLIN", "ENDERMAN", "SKELETON", "GHAST", "AXOLOTL", "WARDEN"}
)

// NewWorldSeed returns a family code of the form ADJECTIVE-MOB-NNN.
func NewWorldSeed() string {
	return newWorldSeed(rand.IntN)
}

func newWorldSeed(intn func(int) int) string {
	adj := seedAdjectives[intn(len(seedAdjectives))]
	mob := seedMobs[intn(len(seedMobs))]
	return fmt.Sprintf("%s-%s-%03d", adj, mob, 100+intn(900))
}

// DefaultProfile is the state of a freshly created player.
func DefaultProfile(name string, tun Tuning) Profile {
	if name == "" {
		name = "Hero"
	}
	maxHP := tun.DefaultMaxHP
	if maxHP <= 0 {
		maxHP = DefaultTuning().DefaultMaxHP
	}
	return Profile{
		Name:        name,
		HP:          maxHP,
		MaxHP:       maxHP,
		Level:       1,
		Inventory:   map[string]int{},
		WorldBlocks: []PlacedBlock{},
		Rank:        RankForLevel(1).Label,
		SensoryMode: SensoryStandard,
		ShowDayMap:  true,
	}
}

const DefaultParentPin = "1234"

func DefaultSettings(familyName string) Settings {
	if familyName == "" {
		familyName = "New World"
	}
	return Settings{
		ParentPin:  DefaultParentPin,
		FamilyName: familyName,
		Rules:      DefaultRules(),
	}
}

// DefaultRewards is the starting shop catalog.
func DefaultRewards() []Reward {
	return []Reward{
		{ID: "1", Title: "Grass Block", Cost: 10, Currency: Emerald, Icon: "🌱", Type: RewardBlock, BlockColor: "#58a034"},
		{ID: "2", Title: "Stone Block", Cost: 20, Currency: Emerald, Icon: "🪨", Type: RewardBlock, BlockColor: "#8b8b8b"},
		{ID: "3", Title: "Extra Time (15 min)", Cost: 5, Currency: Diamond, Icon: "⏳", Type: RewardRealLife},
		{ID: "4", Title: "Healing Potion", Cost: 15, Currency: Emerald, Icon: "🧪", Type: RewardPotion},
	}
}

func DefaultGoal() Goal {
	return Goal{Title: "Special Outing", TargetEmeralds: 1000}
}

// ContributeToGoal adds approved emeralds to the family goal, capped at the
// target.
func ContributeToGoal(g Goal, emeralds int) Goal {
	if emeralds <= 0 {
		return g
	}
	g.CurrentEmeralds += emeralds
	if g.TargetEmeralds > 0 && g.CurrentEmeralds > g.TargetEmeralds {
		g.CurrentEmeralds = g.TargetEmeralds
	}
	return g
}
