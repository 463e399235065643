package engine

import "encoding/json"

// Snapshot is every entity of one family at a point in time.
type Snapshot struct {
	Family     string     `json:"family" yaml:"family"`
	Profile    Profile    `json:"profile" yaml:"profile"`
	Tasks      []Task     `json:"tasks" yaml:"tasks"`
	Rewards    []Reward   `json:"rewards" yaml:"rewards"`
	Settings   Settings   `json:"settings" yaml:"settings"`
	Penalties  Penalties  `json:"penalties" yaml:"penalties"`
	Goal       Goal       `json:"goal" yaml:"goal"`
	Messages   []Message  `json:"messages" yaml:"messages"`
	Activities []Activity `json:"activities,omitempty" yaml:"activities,omitempty"`
}

// Redacted returns the snapshot without the parent PIN, for clients that
// may be the child's.
func (s Snapshot) Redacted() Snapshot {
	s.Settings = s.Settings.Redacted()
	return s
}

// Redacted returns the settings without the parent PIN.
func (st Settings) Redacted() Settings {
	st.ParentPin = ""
	return st
}

func (s Snapshot) Task(id string) (Task, int, error) {
	for i, t := range s.Tasks {
		if t.ID == id {
			return t, i, nil
		}
	}
	return Task{}, -1, ErrTaskNotFound
}

func (s Snapshot) Reward(id string) (Reward, error) {
	for _, r := range s.Rewards {
		if r.ID == id {
			return r, nil
		}
	}
	return Reward{}, ErrRewardNotFound
}

// TasksFor returns the tasks of one time-of-day period in stored order.
func (s Snapshot) TasksFor(tod TimeOfDay) []Task {
	var out []Task
	for _, t := range s.Tasks {
		if t.TimeOfDay == tod {
			out = append(out, t)
		}
	}
	return out
}

// AwaitingReview returns the submitted tasks a parent has to review.
func (s Snapshot) AwaitingReview() []Task {
	var out []Task
	for _, t := range s.Tasks {
		if t.Status == StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}

func (s Snapshot) UnreadFrom(sender Sender) int {
	n := 0
	for _, m := range s.Messages {
		if m.Sender == sender && !m.Read {
			n++
		}
	}
	return n
}

// replaceTask returns a copy of tasks with index i set to t.
func replaceTask(tasks []Task, i int, t Task) []Task {
	out := append([]Task(nil), tasks...)
	out[i] = t
	return out
}

func decodeJSON(raw []byte, out any) error {
	return json.Unmarshal(raw, out)
}
