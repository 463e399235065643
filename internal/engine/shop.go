package engine

import (
	"context"
	"fmt"
	"strings"
)

// BuyReward debits the reward's price and stores or consumes it.
func (s *Service) BuyReward(ctx context.Context, rewardID string) (PurchaseResult, error) {
	var res PurchaseResult
	err := s.mutate(ctx, "buy reward", func(w *writer) error {
		r, err := w.snap.Reward(rewardID)
		if err != nil {
			return err
		}
		out, err := Purchase(w.snap.Profile, r, w.snap.Settings.Rules, w.tun)
		if err != nil {
			return err
		}
		if err := w.profile(out.Profile); err != nil {
			return err
		}
		w.activity(ActivityItemBought, "Bought: "+r.Title, r.Cost, strings.ToUpper(string(r.Currency)))
		res = out
		return nil
	})
	return res, err
}

// build runs a canvas edit after the builder gate.
func (s *Service) build(ctx context.Context, op string, fn func(w *writer) (Profile, string, error)) error {
	return s.mutate(ctx, op, func(w *writer) error {
		if err := CanBuild(w.snap.Settings.Rules); err != nil {
			return err
		}
		next, detail, err := fn(w)
		if err != nil {
			return err
		}
		if detail == "" {
			return nil
		}
		if err := w.profile(next); err != nil {
			return err
		}
		w.activity(ActivityBuild, detail, 0, "")
		return nil
	})
}

func (s *Service) PlaceBlock(ctx context.Context, rewardID string, x, y int) error {
	return s.build(ctx, "place block", func(w *writer) (Profile, string, error) {
		r, err := w.snap.Reward(rewardID)
		if err != nil {
			return Profile{}, "", err
		}
		next, err := PaintBlock(w.snap.Profile, r, x, y, w.tun.GridSize)
		if err != nil {
			return Profile{}, "", err
		}
		return next, fmt.Sprintf("Placed %s at (%d,%d)", r.Title, x, y), nil
	})
}

// FillBlocks flood-fills from (x, y) and returns the number of cells painted.
func (s *Service) FillBlocks(ctx context.Context, rewardID string, x, y int) (int, error) {
	var n int
	err := s.build(ctx, "fill blocks", func(w *writer) (Profile, string, error) {
		r, err := w.snap.Reward(rewardID)
		if err != nil {
			return Profile{}, "", err
		}
		next, changed, err := FillBlocks(w.snap.Profile, r, x, y, w.tun.GridSize)
		if err != nil || changed == 0 {
			return Profile{}, "", err
		}
		n = changed
		return next, fmt.Sprintf("Filled %d cells with %s", changed, r.Title), nil
	})
	return n, err
}

// EraseBlock removes a block and reports whether the cell was occupied.
func (s *Service) EraseBlock(ctx context.Context, x, y int) (bool, error) {
	var erased bool
	err := s.build(ctx, "erase block", func(w *writer) (Profile, string, error) {
		next, ok, err := EraseBlock(w.snap.Profile, x, y, w.tun.GridSize)
		if err != nil || !ok {
			return Profile{}, "", err
		}
		erased = true
		return next, fmt.Sprintf("Erased block at (%d,%d)", x, y), nil
	})
	return erased, err
}

func (s *Service) ClearCanvas(ctx context.Context) error {
	return s.build(ctx, "clear canvas", func(w *writer) (Profile, string, error) {
		if len(w.snap.Profile.WorldBlocks) == 0 {
			return Profile{}, "", nil
		}
		n := len(w.snap.Profile.WorldBlocks)
		return ClearCanvas(w.snap.Profile), fmt.Sprintf("Cleared canvas (%d blocks returned)", n), nil
	})
}

func (s *Service) AddReward(ctx context.Context, in AddRewardInput) (Reward, error) {
	r, err := NewReward(in)
	if err != nil {
		return Reward{}, err
	}
	err = s.mutate(ctx, "add reward", func(w *writer) error {
		w.rewards(append(append([]Reward(nil), w.snap.Rewards...), r))
		return nil
	})
	if err != nil {
		return Reward{}, err
	}
	return r, nil
}

// DeleteReward removes a catalog entry. Owned and placed units stay with
// the player.
func (s *Service) DeleteReward(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete reward", func(w *writer) error {
		if _, err := w.snap.Reward(id); err != nil {
			return err
		}
		var next []Reward
		for _, r := range w.snap.Rewards {
			if r.ID != id {
				next = append(next, r)
			}
		}
		w.rewards(next)
		return nil
	})
}
