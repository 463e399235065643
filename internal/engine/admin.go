package engine

import (
	"context"
	"fmt"
	"strings"
)

// AdjustCurrency applies a manual parent correction to XP, a currency or HP.
func (s *Service) AdjustCurrency(ctx context.Context, amount int, kind AdjustKind) (Profile, error) {
	var out Profile
	err := s.mutate(ctx, "adjust", func(w *writer) error {
		before := w.snap.Profile.Level
		next, err := Adjust(w.snap.Profile, amount, kind, w.tun)
		if err != nil {
			return err
		}
		if err := w.profile(next); err != nil {
			return err
		}
		w.activity(ActivityManualAdjust, fmt.Sprintf("Master adjusted %s", kind), amount, string(kind))
		if next.Level > before {
			w.activity(ActivityLevelUp, fmt.Sprintf("Reached level %d", next.Level), 0, "")
		}
		out = next
		return nil
	})
	return out, err
}

func (s *Service) UpdateProfile(ctx context.Context, patch ProfilePatch) (Profile, error) {
	var out Profile
	err := s.mutate(ctx, "update profile", func(w *writer) error {
		next, err := ApplyProfilePatch(w.snap.Profile, patch)
		if err != nil {
			return err
		}
		out = next
		return w.profile(next)
	})
	return out, err
}

func (s *Service) UpdateSettings(ctx context.Context, pin, familyName string, rules Rules) (Settings, error) {
	var out Settings
	err := s.mutate(ctx, "update settings", func(w *writer) error {
		next, err := ApplySettings(w.snap.Settings, pin, familyName, rules)
		if err != nil {
			return err
		}
		w.settings(next)
		out = next
		return nil
	})
	return out, err
}

// CheckPin compares pin with the family's parent PIN. It is a convenience
// gate for the parent surface only.
func (s *Service) CheckPin(ctx context.Context, pin string) error {
	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(pin) != snap.Settings.ParentPin {
		return ErrWrongPin
	}
	return nil
}

func (s *Service) SendMessage(ctx context.Context, text string, from Sender) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, reject("message is empty")
	}
	if from != SenderMaster && from != SenderPlayer {
		return Message{}, reject("invalid sender")
	}
	var out Message
	err := s.mutate(ctx, "send message", func(w *writer) error {
		out = w.message(text, from)
		return nil
	})
	return out, err
}

// MarkMessagesRead marks every unread message sent by from as read.
func (s *Service) MarkMessagesRead(ctx context.Context, from Sender) (int, error) {
	var n int
	err := s.mutate(ctx, "mark messages read", func(w *writer) error {
		next, changed := MarkRead(w.snap.Messages, from)
		if changed == 0 {
			return nil
		}
		w.messages(next)
		n = changed
		return nil
	})
	return n, err
}

func (s *Service) UpdateGoal(ctx context.Context, title string, target int) (Goal, error) {
	var out Goal
	err := s.mutate(ctx, "update goal", func(w *writer) error {
		next, err := ApplyGoal(w.snap.Goal, title, target)
		if err != nil {
			return err
		}
		w.goal(next)
		out = next
		return nil
	})
	return out, err
}
