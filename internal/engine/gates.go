package engine

// Tuning holds the numeric knobs of the engine that are not part of the
// per-family rules. Values come from configuration.
type Tuning struct {
	BonusDiamondsPerLevel int
	TaskHeal              int
	PotionHeal            int
	PenaltyDamage         int
	MorningEndHour        int
	AfternoonEndHour      int
	GridSize              int
	ActivityWindow        int
	DefaultMaxHP          int
}

func DefaultTuning() Tuning {
	return Tuning{
		BonusDiamondsPerLevel: 1,
		TaskHeal:              5,
		PotionHeal:            25,
		PenaltyDamage:         20,
		MorningEndHour:        12,
		AfternoonEndHour:      18,
		GridSize:              12,
		ActivityWindow:        200,
		DefaultMaxHP:          100,
	}
}

func DefaultRules() Rules {
	return Rules{
		AllowShop:        true,
		AllowBuilder:     true,
		XPMultiplier:     1,
		DamageMultiplier: 1,
		RequireEvidence:  true,
	}
}

// WindowElapsed reports whether the time-of-day window has fully passed at
// the given local hour. Night never expires on the same day.
func (tun Tuning) WindowElapsed(tod TimeOfDay, hour int) bool {
	switch tod {
	case Morning:
		return hour >= tun.MorningEndHour
	case Afternoon:
		return hour >= tun.AfternoonEndHour
	default:
		return false
	}
}

// PeriodAt returns the time-of-day period containing hour.
func (tun Tuning) PeriodAt(hour int) TimeOfDay {
	switch {
	case hour < tun.MorningEndHour:
		return Morning
	case hour < tun.AfternoonEndHour:
		return Afternoon
	default:
		return Night
	}
}

// PenaltyFor returns the HP damage for one failed task under rules.
func (tun Tuning) PenaltyFor(rules Rules) int {
	if rules.DamageMultiplier <= 0 {
		return 0
	}
	return int(float64(tun.PenaltyDamage) * rules.DamageMultiplier)
}

func CanShop(rules Rules) error {
	if !rules.AllowShop {
		return ErrShopClosed
	}
	return nil
}

func CanBuild(rules Rules) error {
	if !rules.AllowBuilder {
		return ErrBuilderClosed
	}
	return nil
}
