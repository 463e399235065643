package engine

// Rank is one tier of the avatar progression.
type Rank struct {
	MinLevel    int
	Label       string
	Icon        string
	Description string
}

// Ranks is ordered by MinLevel ascending. The first entry is the floor.
var Ranks = []Rank{
	{MinLevel: 1, Label: "Steve (Novice)", Icon: "👕", Description: "Just a blue t-shirt."},
	{MinLevel: 3, Label: "Leather (Explorer)", Icon: "🟤", Description: "Basic protection for exploring."},
	{MinLevel: 5, Label: "Iron (Warrior)", Icon: "⚪", Description: "Shiny, tough armor."},
	{MinLevel: 10, Label: "Gold (Veteran)", Icon: "🟡", Description: "Stylish, but breaks fast!"},
	{MinLevel: 20, Label: "Diamond (Master)", Icon: "💎", Description: "The supreme protection in the game."},
	{MinLevel: 50, Label: "Netherite (Legend)", Icon: "🟣", Description: "Stronger than diamond."},
}

// RankForLevel returns the highest tier whose MinLevel is at most level,
// or the lowest tier when level is below every threshold.
func RankForLevel(level int) Rank {
	best := Ranks[0]
	for _, r := range Ranks {
		if r.MinLevel <= level && r.MinLevel >= best.MinLevel {
			best = r
		}
	}
	return best
}

// NextRank returns the tier after the current one, and false at the top.
func NextRank(level int) (Rank, bool) {
	for _, r := range Ranks {
		if r.MinLevel > level {
			return r, true
		}
	}
	return Rank{}, false
}
