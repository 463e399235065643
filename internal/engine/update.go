package engine

import "strings"

// ProfilePatch carries the profile fields a parent may edit directly. Nil
// fields are left unchanged. Progression values go through Adjust instead.
type ProfilePatch struct {
	Name        *string      `json:"name,omitempty"`
	AvatarURL   *string      `json:"avatarUrl,omitempty"`
	SensoryMode *SensoryMode `json:"sensoryMode,omitempty"`
	ShowDayMap  *bool        `json:"showDayMap,omitempty"`
	MaxHP       *int         `json:"maxHp,omitempty"`
	Streak      *int         `json:"streak,omitempty"`
}

func ApplyProfilePatch(p Profile, patch ProfilePatch) (Profile, error) {
	next := p.clone()
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return p, reject("name is required")
		}
		next.Name = name
	}
	if patch.AvatarURL != nil {
		next.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if patch.SensoryMode != nil {
		switch *patch.SensoryMode {
		case SensoryStandard, SensoryLow:
			next.SensoryMode = *patch.SensoryMode
		default:
			return p, reject("invalid sensory mode")
		}
	}
	if patch.ShowDayMap != nil {
		next.ShowDayMap = *patch.ShowDayMap
	}
	if patch.MaxHP != nil {
		if *patch.MaxHP <= 0 {
			return p, ErrInvalidAmount
		}
		next.MaxHP = *patch.MaxHP
		next.HP = clamp(next.HP, 0, next.MaxHP)
	}
	if patch.Streak != nil {
		if *patch.Streak < 0 {
			return p, ErrInvalidAmount
		}
		next.Streak = *patch.Streak
	}
	return next, nil
}

// ApplySettings replaces the parent-editable settings. LastReset belongs to
// the scheduler and is carried over.
func ApplySettings(cur Settings, pin, familyName string, rules Rules) (Settings, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return cur, reject("PIN is required")
	}
	familyName = strings.TrimSpace(familyName)
	if familyName == "" {
		familyName = cur.FamilyName
	}
	if rules.XPMultiplier < 0 || rules.DamageMultiplier < 0 {
		return cur, ErrInvalidAmount
	}
	return Settings{
		ParentPin:  pin,
		FamilyName: familyName,
		Rules:      rules,
		LastReset:  cur.LastReset,
	}, nil
}

// ApplyGoal sets a new family goal, keeping the progress already made.
func ApplyGoal(cur Goal, title string, target int) (Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = cur.Title
	}
	if target <= 0 {
		return cur, ErrInvalidAmount
	}
	next := Goal{Title: title, TargetEmeralds: target, CurrentEmeralds: cur.CurrentEmeralds}
	if next.CurrentEmeralds > target {
		next.CurrentEmeralds = target
	}
	return next, nil
}

// MarkRead flags every unread message sent by from as read and returns the
// count.
func MarkRead(msgs []Message, from Sender) ([]Message, int) {
	out := append([]Message(nil), msgs...)
	n := 0
	for i := range out {
		if out[i].Sender == from && !out[i].Read {
			out[i].Read = true
			n++
		}
	}
	return out, n
}
