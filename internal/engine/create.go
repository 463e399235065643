package engine

import (
	"strings"

	"github.com/google/uuid"
)

type AddTaskInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	TimeOfDay       TimeOfDay  `json:"timeOfDay"`
	Points          int        `json:"points"`
	Emeralds        int        `json:"emeralds,omitempty"`
	Diamonds        int        `json:"diamonds,omitempty"`
	Steps           []string   `json:"steps,omitempty"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
	Recurrence      Recurrence `json:"recurrence,omitempty"`
}

type AddRewardInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Cost        int        `json:"cost"`
	Currency    Currency   `json:"currency"`
	Icon        string     `json:"icon,omitempty"`
	Type        RewardType `json:"type"`
	BlockColor  string     `json:"blockColor,omitempty"`
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", reject("title is required")
	}
	return t, nil
}

// NewTask builds a PENDING task with fresh ids for the task and its steps.
func NewTask(in AddTaskInput) (Task, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return Task{}, err
	}
	if in.TimeOfDay == "" {
		in.TimeOfDay = Morning
	}
	if !in.TimeOfDay.IsValid() {
		return Task{}, reject("invalid time of day")
	}
	if in.Points < 0 || in.Emeralds < 0 || in.Diamonds < 0 || in.DurationMinutes < 0 {
		return Task{}, ErrInvalidAmount
	}
	switch in.Recurrence {
	case "":
		in.Recurrence = RecurrenceDaily
	case RecurrenceDaily, RecurrenceNone:
	default:
		return Task{}, reject("invalid recurrence")
	}

	var steps []Step
	for _, text := range in.Steps {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		steps = append(steps, Step{ID: uuid.NewString(), Text: text})
	}

	return Task{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		TimeOfDay:       in.TimeOfDay,
		Points:          in.Points,
		Emeralds:        in.Emeralds,
		Diamonds:        in.Diamonds,
		Status:          StatusPending,
		Steps:           steps,
		DurationMinutes: in.DurationMinutes,
		Recurrence:      in.Recurrence,
	}, nil
}

func NewReward(in AddRewardInput) (Reward, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return Reward{}, err
	}
	if in.Cost < 0 {
		return Reward{}, ErrInvalidAmount
	}
	if in.Currency == "" {
		in.Currency = Emerald
	}
	if !in.Currency.IsValid() {
		return Reward{}, reject("invalid currency")
	}
	if in.Type == "" {
		in.Type = RewardRealLife
	}
	if !in.Type.IsValid() {
		return Reward{}, reject("invalid reward type")
	}
	color := strings.TrimSpace(in.BlockColor)
	if in.Type == RewardBlock && color == "" {
		color = DefaultBlockColor
	}
	if in.Type != RewardBlock {
		color = ""
	}
	return Reward{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Cost:        in.Cost,
		Currency:    in.Currency,
		Icon:        strings.TrimSpace(in.Icon),
		Type:        in.Type,
		BlockColor:  color,
	}, nil
}

// ValidateTask checks a task supplied wholesale by a caller.
func ValidateTask(t Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return reject("task id is required")
	}
	if _, err := normalizeTitle(t.Title); err != nil {
		return err
	}
	if !t.TimeOfDay.IsValid() {
		return reject("invalid time of day")
	}
	if !t.Status.IsValid() {
		return ErrInvalidTransition
	}
	if t.Points < 0 || t.Emeralds < 0 || t.Diamonds < 0 {
		return ErrInvalidAmount
	}
	return nil
}
