package engine

import "math"

// XPPerLevel scales the linear XP curve: reaching level L+1 from L costs
// XPPerLevel*L experience.
const XPPerLevel = 100

// RequiredXP returns the experience needed to advance past level. It is
// strictly positive and strictly increasing for level >= 1.
func RequiredXP(level int) int {
	if level < 1 {
		level = 1
	}
	return XPPerLevel * level
}

// ScaledXP applies the family XP multiplier to a task's point value. The
// result is an integer computed once, so nothing fractional accumulates.
func ScaledXP(points int, multiplier float64) int {
	if points <= 0 || multiplier <= 0 || math.IsNaN(multiplier) {
		return 0
	}
	return int(math.Floor(float64(points) * multiplier))
}

type RewardResult struct {
	Profile       Profile
	XPGained      int
	LevelBefore   int
	LevelAfter    int
	BonusDiamonds int
}

func (r RewardResult) LevelUp() bool {
	return r.LevelAfter > r.LevelBefore
}

// ApplyTaskReward returns the profile after an approved task pays out:
// scaled XP, both currencies, the per-task heal, and the level-up loop.
func ApplyTaskReward(p Profile, t Task, rules Rules, tun Tuning) RewardResult {
	next := p.clone()
	xp := ScaledXP(t.Points, rules.XPMultiplier)

	next.Emeralds += nonNegative(t.Emeralds)
	next.Diamonds += nonNegative(t.Diamonds)
	next.HP = clamp(next.HP+tun.TaskHeal, 0, next.MaxHP)

	_, bonus := gainXP(&next, xp, tun)
	return RewardResult{
		Profile:       next,
		XPGained:      xp,
		LevelBefore:   p.Level,
		LevelAfter:    next.Level,
		BonusDiamonds: bonus,
	}
}

// gainXP adds xp to p and runs the level-up loop. Every level gained pays
// the bonus diamonds and restores HP to the ceiling.
func gainXP(p *Profile, xp int, tun Tuning) (levels, bonus int) {
	if p.Level < 1 {
		p.Level = 1
	}
	p.Experience += nonNegative(xp)
	for p.Experience >= RequiredXP(p.Level) {
		p.Experience -= RequiredXP(p.Level)
		p.Level++
		levels++
		bonus += tun.BonusDiamondsPerLevel
		p.HP = p.MaxHP
	}
	p.Diamonds += bonus
	p.Rank = RankForLevel(p.Level).Label
	return levels, bonus
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
