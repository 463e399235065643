package engine

import (
	"fmt"
	"strings"
)

// ParseTimeOfDay parses user input to a TimeOfDay.
// Supported: morning/am/m, afternoon/pm/a, night/evening/n.
func ParseTimeOfDay(input string) (TimeOfDay, error) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "morning", "am", "m", "manha", "manhã":
		return Morning, nil
	case "afternoon", "pm", "a", "tarde":
		return Afternoon, nil
	case "night", "evening", "n", "noite":
		return Night, nil
	default:
		return "", fmt.Errorf("invalid time of day: %q", input)
	}
}

// ParseCurrency parses emerald/diamond, accepting plurals. Empty input is
// emerald.
func ParseCurrency(input string) (Currency, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "", "emerald", "emeralds", "e":
		return Emerald, nil
	case "diamond", "diamonds", "d":
		return Diamond, nil
	default:
		return "", fmt.Errorf("invalid currency: %q", input)
	}
}

func ParseRewardType(input string) (RewardType, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "", "real_life", "reallife", "irl":
		return RewardRealLife, nil
	}
	r := RewardType(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid reward type: %q", input)
	}
	return r, nil
}

func ParseAdjustKind(input string) (AdjustKind, error) {
	s := strings.TrimSpace(strings.ToUpper(input))
	switch s {
	case "EMERALDS":
		s = string(AdjustEmerald)
	case "DIAMONDS":
		s = string(AdjustDiamond)
	}
	k := AdjustKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid adjustment type: %q", input)
	}
	return k, nil
}

func ParseSender(input string) (Sender, error) {
	switch strings.TrimSpace(strings.ToUpper(input)) {
	case "", string(SenderMaster), "PARENT":
		return SenderMaster, nil
	case string(SenderPlayer), "CHILD":
		return SenderPlayer, nil
	default:
		return "", fmt.Errorf("invalid sender: %q", input)
	}
}
