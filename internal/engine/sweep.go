package engine

// DayFormat is the layout of Settings.LastReset.
const DayFormat = "2006-01-02"

type ResetResult struct {
	Tasks     []Task
	Settings  Settings
	Penalties Penalties
	Reset     int
	Changed   bool
}

// DailyReset rolls the world over to today. Recurring tasks go back to
// PENDING and the penalty markers are cleared. Running it again on the same
// day changes nothing.
func DailyReset(tasks []Task, settings Settings, penalties Penalties, today string) ResetResult {
	if settings.LastReset == today {
		return ResetResult{Tasks: tasks, Settings: settings, Penalties: penalties}
	}
	out := ResetResult{
		Tasks:     make([]Task, len(tasks)),
		Settings:  settings,
		Penalties: Penalties{},
		Changed:   true,
	}
	for i, t := range tasks {
		next, ok := ResetTask(t)
		if ok {
			out.Reset++
		}
		out.Tasks[i] = next
	}
	out.Settings.LastReset = today
	return out
}

type SweepResult struct {
	Tasks     []Task
	Profile   Profile
	Penalties Penalties
	Failed    []Task
	Damage    int
}

func (r SweepResult) Changed() bool {
	return len(r.Failed) > 0
}

// PenaltySweep fails every unresolved task whose window has elapsed at hour
// and that is not yet marked. The damage of all newly failed tasks is summed
// and applied to HP in one step, floored at zero.
func PenaltySweep(tasks []Task, p Profile, penalties Penalties, hour int, rules Rules, tun Tuning) SweepResult {
	out := SweepResult{Tasks: tasks, Profile: p, Penalties: penalties}
	var failed []Task
	next := make([]Task, len(tasks))
	for i, t := range tasks {
		next[i] = t
		if penalties[t.ID] {
			continue
		}
		if expired, ok := ExpireTask(t, hour, tun); ok {
			next[i] = expired
			failed = append(failed, expired)
		}
	}
	if len(failed) == 0 {
		return out
	}

	marks := make(Penalties, len(penalties)+len(failed))
	for id := range penalties {
		marks[id] = true
	}
	per := tun.PenaltyFor(rules)
	for _, t := range failed {
		marks[t.ID] = true
		out.Damage += per
	}
	prof := p.clone()
	prof.HP = nonNegative(prof.HP - out.Damage)

	out.Tasks = next
	out.Profile = prof
	out.Penalties = marks
	out.Failed = failed
	return out
}
