package engine

import "time"

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Night     TimeOfDay = "night"
)

func (t TimeOfDay) IsValid() bool {
	switch t {
	case Morning, Afternoon, Night:
		return true
	default:
		return false
	}
}

type Recurrence string

const (
	RecurrenceDaily Recurrence = "daily"
	RecurrenceNone  Recurrence = "none"
)

// Recurring reports whether a task resets at day rollover. An unset
// recurrence counts as daily.
func (r Recurrence) Recurring() bool {
	return r != RecurrenceNone
}

type EvidenceType string

const (
	EvidencePhoto   EvidenceType = "photo"
	EvidenceDrawing EvidenceType = "drawing"
)

type Step struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

type Task struct {
	ID              string       `json:"id" yaml:"id"`
	Title           string       `json:"title" yaml:"title"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	TimeOfDay       TimeOfDay    `json:"timeOfDay" yaml:"time_of_day"`
	Points          int          `json:"points" yaml:"points"`
	Emeralds        int          `json:"emeralds" yaml:"emeralds"`
	Diamonds        int          `json:"diamonds" yaml:"diamonds"`
	Status          Status       `json:"status" yaml:"status"`
	EvidenceURL     string       `json:"evidenceUrl,omitempty" yaml:"evidence_url,omitempty"`
	EvidenceType    EvidenceType `json:"evidenceType,omitempty" yaml:"evidence_type,omitempty"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	Steps           []Step       `json:"steps,omitempty" yaml:"steps,omitempty"`
	DurationMinutes int          `json:"durationMinutes,omitempty" yaml:"duration_minutes,omitempty"`
	Recurrence      Recurrence   `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	ParentFeedback  string       `json:"parentFeedback,omitempty" yaml:"parent_feedback,omitempty"`
}

// StepsDone reports whether every sub-step is complete. A task without
// steps is always done.
func (t Task) StepsDone() bool {
	for _, s := range t.Steps {
		if !s.Completed {
			return false
		}
	}
	return true
}

func (t Task) clone() Task {
	out := t
	if t.Steps != nil {
		out.Steps = append([]Step(nil), t.Steps...)
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		out.CompletedAt = &v
	}
	return out
}

type Currency string

const (
	Emerald Currency = "emerald"
	Diamond Currency = "diamond"
)

func (c Currency) IsValid() bool {
	return c == Emerald || c == Diamond
}

type RewardType string

const (
	RewardBlock    RewardType = "block"
	RewardOutfit   RewardType = "outfit"
	RewardRealLife RewardType = "real_life"
	RewardPotion   RewardType = "potion"
)

func (r RewardType) IsValid() bool {
	switch r {
	case RewardBlock, RewardOutfit, RewardRealLife, RewardPotion:
		return true
	default:
		return false
	}
}

type Reward struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Cost        int        `json:"cost" yaml:"cost"`
	Currency    Currency   `json:"currency" yaml:"currency"`
	Icon        string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Type        RewardType `json:"type" yaml:"type"`
	BlockColor  string     `json:"blockColor,omitempty" yaml:"block_color,omitempty"`
}

type PlacedBlock struct {
	X        int    `json:"x" yaml:"x"`
	Y        int    `json:"y" yaml:"y"`
	RewardID string `json:"id" yaml:"reward_id"`
	Color    string `json:"color" yaml:"color"`
	Name     string `json:"name" yaml:"name"`
}

type SensoryMode string

const (
	SensoryStandard SensoryMode = "standard"
	SensoryLow      SensoryMode = "low_sensory"
)

type Profile struct {
	Name        string         `json:"name" yaml:"name"`
	Emeralds    int            `json:"emeralds" yaml:"emeralds"`
	Diamonds    int            `json:"diamonds" yaml:"diamonds"`
	HP          int            `json:"hp" yaml:"hp"`
	MaxHP       int            `json:"maxHp" yaml:"max_hp"`
	Level       int            `json:"level" yaml:"level"`
	Experience  int            `json:"experience" yaml:"experience"`
	Streak      int            `json:"streak" yaml:"streak"`
	Inventory   map[string]int `json:"inventory" yaml:"inventory"`
	WorldBlocks []PlacedBlock  `json:"worldBlocks" yaml:"world_blocks"`
	AvatarURL   string         `json:"avatarUrl,omitempty" yaml:"avatar_url,omitempty"`
	Rank        string         `json:"rank" yaml:"rank"`
	SensoryMode SensoryMode    `json:"sensoryMode" yaml:"sensory_mode"`
	ShowDayMap  bool           `json:"showDayMap" yaml:"show_day_map"`
}

// clone returns a copy that shares no maps or slices with p.
func (p Profile) clone() Profile {
	out := p
	out.Inventory = make(map[string]int, len(p.Inventory))
	for k, v := range p.Inventory {
		out.Inventory[k] = v
	}
	out.WorldBlocks = append([]PlacedBlock(nil), p.WorldBlocks...)
	return out
}

func (p Profile) Balance(c Currency) int {
	if c == Diamond {
		return p.Diamonds
	}
	return p.Emeralds
}

type Rules struct {
	AllowShop        bool    `json:"allowShop" yaml:"allow_shop"`
	AllowBuilder     bool    `json:"allowBuilder" yaml:"allow_builder"`
	XPMultiplier     float64 `json:"xpMultiplier" yaml:"xp_multiplier"`
	DamageMultiplier float64 `json:"damageMultiplier" yaml:"damage_multiplier"`
	RequireEvidence  bool    `json:"requireEvidence" yaml:"require_evidence"`
}

type Settings struct {
	ParentPin  string `json:"parentPin" yaml:"parent_pin"`
	FamilyName string `json:"familyName" yaml:"family_name"`
	Rules      Rules  `json:"rules" yaml:"rules"`
	// LastReset is the ISO calendar day (YYYY-MM-DD) of the last daily reset.
	LastReset string `json:"lastReset,omitempty" yaml:"last_reset,omitempty"`
}

type ActivityType string

const (
	ActivityTaskDone     ActivityType = "TASK_DONE"
	ActivityTaskApproved ActivityType = "TASK_APPROVED"
	ActivityTaskRejected ActivityType = "TASK_REJECTED"
	ActivityTaskFailed   ActivityType = "TASK_FAILED"
	ActivityItemBought   ActivityType = "ITEM_BOUGHT"
	ActivityLevelUp      ActivityType = "LEVEL_UP"
	ActivityManualAdjust ActivityType = "MANUAL_ADJUST"
	ActivitySystemReset  ActivityType = "SYSTEM_RESET"
	ActivityBuild        ActivityType = "BUILD"
)

type Activity struct {
	ID        string       `json:"id,omitempty" yaml:"id,omitempty"`
	Type      ActivityType `json:"type" yaml:"type"`
	User      string       `json:"user" yaml:"user"`
	Detail    string       `json:"detail" yaml:"detail"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Amount    int          `json:"amount,omitempty" yaml:"amount,omitempty"`
	Currency  string       `json:"currency,omitempty" yaml:"currency,omitempty"`
}

type Sender string

const (
	SenderMaster Sender = "MASTER"
	SenderPlayer Sender = "PLAYER"
)

type Message struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Text      string    `json:"text" yaml:"text"`
	Sender    Sender    `json:"sender" yaml:"sender"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Read      bool      `json:"read" yaml:"read"`
}

type Goal struct {
	Title           string `json:"title" yaml:"title"`
	TargetEmeralds  int    `json:"targetEmeralds" yaml:"target_emeralds"`
	CurrentEmeralds int    `json:"currentEmeralds" yaml:"current_emeralds"`
}

// Percent returns goal progress in [0, 100].
func (g Goal) Percent() int {
	if g.TargetEmeralds <= 0 {
		return 100
	}
	pct := g.CurrentEmeralds * 100 / g.TargetEmeralds
	if pct > 100 {
		return 100
	}
	return pct
}

// Penalties is the set of task ids already penalized since the last reset.
type Penalties map[string]bool
