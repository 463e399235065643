package engine

import (
	"context"
	"fmt"
)

// taskStep applies a pure task transition to one stored task.
func (s *Service) taskStep(ctx context.Context, op, id string, fn func(w *writer, t Task) (Task, error)) (Task, error) {
	var out Task
	err := s.mutate(ctx, op, func(w *writer) error {
		t, i, err := w.snap.Task(id)
		if err != nil {
			return err
		}
		next, err := fn(w, t)
		if err != nil {
			return err
		}
		w.tasks(replaceTask(w.snap.Tasks, i, next))
		out = next
		return nil
	})
	return out, err
}

func (s *Service) StartTask(ctx context.Context, id string) (Task, error) {
	return s.taskStep(ctx, "start task", id, func(w *writer, t Task) (Task, error) {
		return StartTask(t, w.snap.Profile.HP, w.now.Hour(), w.tun)
	})
}

func (s *Service) ToggleStep(ctx context.Context, taskID, stepID string) (Task, error) {
	return s.taskStep(ctx, "toggle step", taskID, func(w *writer, t Task) (Task, error) {
		return ToggleStep(t, stepID)
	})
}

// SubmitEvidence hands a task over for parent review.
func (s *Service) SubmitEvidence(ctx context.Context, id, url string, typ EvidenceType) (Task, error) {
	return s.taskStep(ctx, "submit evidence", id, func(w *writer, t Task) (Task, error) {
		next, err := SubmitEvidence(t, url, typ, w.now, w.snap.Settings.Rules, w.tun)
		if err != nil {
			return t, err
		}
		w.activity(ActivityTaskDone, "Quest done, awaiting approval: "+t.Title, 0, "")
		return next, nil
	})
}

// CompleteTask is SubmitEvidence under the name the child surface uses.
func (s *Service) CompleteTask(ctx context.Context, id, url string, typ EvidenceType) (Task, error) {
	return s.SubmitEvidence(ctx, id, url, typ)
}

type ApproveResult struct {
	Task Task
	RewardResult
}

// ApproveTask accepts a submitted task and pays out its reward.
func (s *Service) ApproveTask(ctx context.Context, id, feedback string) (ApproveResult, error) {
	var res ApproveResult
	err := s.mutate(ctx, "approve task", func(w *writer) error {
		t, i, err := w.snap.Task(id)
		if err != nil {
			return err
		}
		approved, err := ApproveTask(t, feedback)
		if err != nil {
			return err
		}
		reward := ApplyTaskReward(w.snap.Profile, t, w.snap.Settings.Rules, w.tun)
		if err := w.profile(reward.Profile); err != nil {
			return err
		}
		w.tasks(replaceTask(w.snap.Tasks, i, approved))
		if t.Emeralds > 0 {
			w.goal(ContributeToGoal(w.snap.Goal, t.Emeralds))
		}

		w.activity(ActivityTaskApproved, "Approved: "+t.Title, t.Emeralds, "EMERALD")
		if reward.LevelUp() {
			w.activity(ActivityLevelUp,
				fmt.Sprintf("Reached level %d (%s)", reward.LevelAfter, RankForLevel(reward.LevelAfter).Label),
				reward.BonusDiamonds, "DIAMOND")
		}
		w.message(fmt.Sprintf("Master approved: %s! Reward delivered.", t.Title), SenderMaster)

		res = ApproveResult{Task: approved, RewardResult: reward}
		return nil
	})
	return res, err
}

// RejectTask sends a submitted task back to the child.
func (s *Service) RejectTask(ctx context.Context, id, feedback string) (Task, error) {
	return s.taskStep(ctx, "reject task", id, func(w *writer, t Task) (Task, error) {
		next, err := RejectTask(t, feedback)
		if err != nil {
			return t, err
		}
		w.activity(ActivityTaskRejected, "Rejected: "+t.Title, 0, "")
		text := "Your evidence was not accepted. Try again!"
		if next.ParentFeedback != "" {
			text += " " + next.ParentFeedback
		}
		w.message(text, SenderMaster)
		return next, nil
	})
}

func (s *Service) AddTask(ctx context.Context, in AddTaskInput) (Task, error) {
	t, err := NewTask(in)
	if err != nil {
		return Task{}, err
	}
	err = s.mutate(ctx, "add task", func(w *writer) error {
		w.tasks(append(append([]Task(nil), w.snap.Tasks...), t))
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete task", func(w *writer) error {
		_, i, err := w.snap.Task(id)
		if err != nil {
			return err
		}
		next := append([]Task(nil), w.snap.Tasks[:i]...)
		next = append(next, w.snap.Tasks[i+1:]...)
		w.tasks(next)
		if w.snap.Penalties[id] {
			marks := make(Penalties, len(w.snap.Penalties))
			for k := range w.snap.Penalties {
				if k != id {
					marks[k] = true
				}
			}
			w.penalties(marks)
		}
		return nil
	})
}

// UpdateTasks replaces the whole task list, e.g. after a reorder.
func (s *Service) UpdateTasks(ctx context.Context, tasks []Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if err := ValidateTask(t); err != nil {
			return err
		}
		if seen[t.ID] {
			return reject("duplicate task id " + t.ID)
		}
		seen[t.ID] = true
	}
	return s.mutate(ctx, "update tasks", func(w *writer) error {
		out := make([]Task, len(tasks))
		for i, t := range tasks {
			out[i] = t.clone()
		}
		w.tasks(out)
		return nil
	})
}
