package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func freshProfile() Profile {
	return DefaultProfile("Steve", DefaultTuning())
}

func TestRequiredXPIsPositiveAndIncreasing(t *testing.T) {
	prev := 0
	for level := 1; level <= 100; level++ {
		got := RequiredXP(level)
		if got <= prev {
			t.Fatalf("RequiredXP(%d)=%d, want > %d", level, got, prev)
		}
		prev = got
	}
	if got := RequiredXP(0); got != RequiredXP(1) {
		t.Fatalf("RequiredXP(0)=%d, want %d", got, RequiredXP(1))
	}
}

func TestApproveScenarioBelowThreshold(t *testing.T) {
	p := freshProfile()
	res := ApplyTaskReward(p, Task{Points: 50, Emeralds: 10}, DefaultRules(), DefaultTuning())

	if res.Profile.Level != 1 || res.Profile.Experience != 50 || res.Profile.Emeralds != 10 {
		t.Fatalf("got level=%d xp=%d emeralds=%d, want 1/50/10",
			res.Profile.Level, res.Profile.Experience, res.Profile.Emeralds)
	}
	if res.LevelUp() {
		t.Fatalf("unexpected level up")
	}
	if p.Emeralds != 0 || p.Experience != 0 {
		t.Fatalf("input profile was mutated")
	}
}

func TestApproveScenarioLevelUp(t *testing.T) {
	tun := DefaultTuning()
	p := freshProfile()
	p.HP = 40
	res := ApplyTaskReward(p, Task{Points: 150}, DefaultRules(), tun)

	if res.Profile.Level != 2 || res.Profile.Experience != 50 {
		t.Fatalf("got level=%d xp=%d, want 2/50", res.Profile.Level, res.Profile.Experience)
	}
	if res.Profile.Diamonds != tun.BonusDiamondsPerLevel {
		t.Fatalf("diamonds=%d, want %d", res.Profile.Diamonds, tun.BonusDiamondsPerLevel)
	}
	if res.Profile.HP != res.Profile.MaxHP {
		t.Fatalf("hp=%d, want max %d", res.Profile.HP, res.Profile.MaxHP)
	}
}

func TestApproveMultiLevelJump(t *testing.T) {
	tun := DefaultTuning()
	p := freshProfile()
	// 100 + 200 + 300 = 600 reaches level 4 with 10 left over.
	res := ApplyTaskReward(p, Task{Points: 610}, DefaultRules(), tun)

	if res.Profile.Level != 4 || res.Profile.Experience != 10 {
		t.Fatalf("got level=%d xp=%d, want 4/10", res.Profile.Level, res.Profile.Experience)
	}
	if res.BonusDiamonds != 3*tun.BonusDiamondsPerLevel || res.Profile.Diamonds != res.BonusDiamonds {
		t.Fatalf("bonus=%d diamonds=%d, want %d", res.BonusDiamonds, res.Profile.Diamonds, 3*tun.BonusDiamondsPerLevel)
	}
	if res.Profile.Rank != RankForLevel(4).Label {
		t.Fatalf("rank=%q, want %q", res.Profile.Rank, RankForLevel(4).Label)
	}
	if err := res.Profile.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestXPMultiplierFloors(t *testing.T) {
	rules := DefaultRules()
	rules.XPMultiplier = 1.5
	res := ApplyTaskReward(freshProfile(), Task{Points: 15}, rules, DefaultTuning())
	if res.XPGained != 22 {
		t.Fatalf("xp=%d, want 22", res.XPGained)
	}
	rules.XPMultiplier = -2
	if got := ScaledXP(15, rules.XPMultiplier); got != 0 {
		t.Fatalf("negative multiplier xp=%d, want 0", got)
	}
}

func TestRankTable(t *testing.T) {
	cases := map[int]string{1: "Steve (Novice)", 2: "Steve (Novice)", 3: "Leather (Explorer)", 9: "Iron (Warrior)", 10: "Gold (Veteran)", 49: "Diamond (Master)", 50: "Netherite (Legend)", 500: "Netherite (Legend)"}
	for level, want := range cases {
		if got := RankForLevel(level).Label; got != want {
			t.Fatalf("RankForLevel(%d)=%q, want %q", level, got, want)
		}
	}
	if next, ok := NextRank(1); !ok || next.MinLevel != 3 {
		t.Fatalf("NextRank(1)=%v,%v", next, ok)
	}
	if _, ok := NextRank(50); ok {
		t.Fatalf("NextRank(50) should not exist")
	}
}

func TestPurchaseInsufficientFundsLeavesProfileUnchanged(t *testing.T) {
	p := freshProfile()
	p.Emeralds = 5
	r := Reward{ID: "1", Cost: 10, Currency: Emerald, Type: RewardBlock}

	res, err := Purchase(p, r, DefaultRules(), DefaultTuning())
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err=%v, want ErrInsufficientFunds", err)
	}
	if res.Profile.Emeralds != 5 || res.Profile.Inventory["1"] != 0 {
		t.Fatalf("profile changed on rejection: %+v", res.Profile)
	}
}

func TestPurchaseDebitsMatchingCurrency(t *testing.T) {
	p := freshProfile()
	p.Emeralds, p.Diamonds = 50, 3

	res, err := Purchase(p, Reward{ID: "t", Cost: 2, Currency: Diamond, Type: RewardRealLife}, DefaultRules(), DefaultTuning())
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if res.Profile.Diamonds != 1 || res.Profile.Emeralds != 50 || res.Profile.Inventory["t"] != 1 {
		t.Fatalf("got %+v", res.Profile)
	}

	rules := DefaultRules()
	rules.AllowShop = false
	closed, err := Purchase(p, Reward{ID: "t", Cost: 1, Currency: Emerald}, rules, DefaultTuning())
	if !errors.Is(err, ErrShopClosed) {
		t.Fatalf("err=%v, want ErrShopClosed", err)
	}
	if !reflect.DeepEqual(closed.Profile, p) {
		t.Fatalf("profile changed with shop closed: %+v", closed.Profile)
	}
}

func TestPotionHealsCapped(t *testing.T) {
	p := freshProfile()
	p.Emeralds = 100
	p.HP = 90
	res, err := Purchase(p, Reward{ID: "4", Cost: 15, Currency: Emerald, Type: RewardPotion}, DefaultRules(), DefaultTuning())
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if res.Profile.HP != 100 || res.Healed != 10 || res.Stored {
		t.Fatalf("hp=%d healed=%d stored=%v", res.Profile.HP, res.Healed, res.Stored)
	}
	if res.Profile.Inventory["4"] != 0 {
		t.Fatalf("potion was stored")
	}
}

func TestAdjust(t *testing.T) {
	tun := DefaultTuning()
	p := freshProfile()

	p2, err := Adjust(p, 250, AdjustXP, tun)
	if err != nil {
		t.Fatalf("Adjust xp: %v", err)
	}
	if p2.Level != 2 || p2.Experience != 150 {
		t.Fatalf("level=%d xp=%d, want 2/150", p2.Level, p2.Experience)
	}
	p3, _ := Adjust(p2, -1000, AdjustXP, tun)
	if p3.Level != 2 || p3.Experience != 0 {
		t.Fatalf("negative xp: level=%d xp=%d, want 2/0", p3.Level, p3.Experience)
	}
	p4, _ := Adjust(p, -10, AdjustEmerald, tun)
	if p4.Emeralds != 0 {
		t.Fatalf("emeralds=%d, want 0", p4.Emeralds)
	}
	p5, _ := Adjust(p, 500, AdjustHP, tun)
	if p5.HP != p5.MaxHP {
		t.Fatalf("hp=%d, want %d", p5.HP, p5.MaxHP)
	}
	p6, _ := Adjust(p, -500, AdjustHP, tun)
	if p6.HP != 0 {
		t.Fatalf("hp=%d, want 0", p6.HP)
	}
	if _, err := Adjust(p, 0, AdjustDiamond, tun); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err=%v, want ErrInvalidAmount", err)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	tun := DefaultTuning()
	rules := DefaultRules()
	task := Task{ID: "t1", TimeOfDay: Afternoon, Status: StatusPending, Steps: []Step{{ID: "a"}, {ID: "b"}}}
	now := time.Date(2026, 1, 10, 13, 0, 0, 0, time.Local)

	started, err := StartTask(task, 100, now.Hour(), tun)
	if err != nil || started.Status != StatusStarted {
		t.Fatalf("StartTask: %v %s", err, started.Status)
	}
	if _, err := SubmitEvidence(started, "img://1", EvidencePhoto, now, rules, tun); !errors.Is(err, ErrStepsIncomplete) {
		t.Fatalf("err=%v, want ErrStepsIncomplete", err)
	}
	s1, _ := ToggleStep(started, "a")
	if s1.Status != StatusStarted {
		t.Fatalf("status=%s, want STARTED", s1.Status)
	}
	s2, _ := ToggleStep(s1, "b")
	if s2.Status != StatusDoing {
		t.Fatalf("status=%s, want DOING", s2.Status)
	}
	if _, err := ToggleStep(s2, "zzz"); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("err=%v, want ErrUnknownStep", err)
	}
	if _, err := SubmitEvidence(s2, " ", "", now, rules, tun); !errors.Is(err, ErrEvidenceRequired) {
		t.Fatalf("err=%v, want ErrEvidenceRequired", err)
	}
	done, err := SubmitEvidence(s2, "img://1", "", now, rules, tun)
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if done.Status != StatusCompleted || done.EvidenceType != EvidencePhoto || done.CompletedAt == nil {
		t.Fatalf("got %+v", done)
	}

	rejected, err := RejectTask(done, "blurry")
	if err != nil || rejected.Status != StatusRejected || rejected.EvidenceURL != "" || rejected.CompletedAt != nil {
		t.Fatalf("RejectTask: %v %+v", err, rejected)
	}
	resubmitted, err := SubmitEvidence(rejected, "img://2", EvidenceDrawing, now, rules, tun)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	approved, err := ApproveTask(resubmitted, "great")
	if err != nil || approved.Status != StatusApproved || approved.ParentFeedback != "great" {
		t.Fatalf("ApproveTask: %v %+v", err, approved)
	}
	if _, err := ApproveTask(approved, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double approve err=%v", err)
	}
}

func TestStartRefusals(t *testing.T) {
	tun := DefaultTuning()
	task := Task{ID: "t", TimeOfDay: Morning, Status: StatusPending}
	if _, err := StartTask(task, 0, 8, tun); !errors.Is(err, ErrIncapacitated) {
		t.Fatalf("err=%v, want ErrIncapacitated", err)
	}
	if _, err := StartTask(task, 10, 12, tun); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("err=%v, want ErrWindowClosed", err)
	}
	task.Status = StatusApproved
	if _, err := StartTask(task, 10, 8, tun); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v, want ErrInvalidTransition", err)
	}
}

func TestSubmitAfterWindowCloses(t *testing.T) {
	tun := DefaultTuning()
	task := Task{
		ID:        "t",
		TimeOfDay: Morning,
		Status:    StatusDoing,
		Steps:     []Step{{ID: "s", Text: "Pillows", Completed: true}},
	}
	at := time.Date(2026, 1, 1, 13, 0, 0, 0, time.Local)

	got, err := SubmitEvidence(task, "photo.png", EvidencePhoto, at, DefaultRules(), tun)
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("err=%v, want ErrWindowClosed", err)
	}
	if got.Status != StatusDoing || got.CompletedAt != nil {
		t.Fatalf("task changed after window closed: %+v", got)
	}

	task.Status = StatusRejected
	if _, err := SubmitEvidence(task, "photo.png", EvidencePhoto, at, DefaultRules(), tun); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("rejected resubmit err=%v, want ErrWindowClosed", err)
	}
}

func TestEvidenceOptionalWhenNotRequired(t *testing.T) {
	rules := DefaultRules()
	rules.RequireEvidence = false
	task := Task{ID: "t", TimeOfDay: Night, Status: StatusPending}
	done, err := SubmitEvidence(task, "", "", time.Date(2026, 1, 1, 23, 0, 0, 0, time.Local), rules, DefaultTuning())
	if err != nil || done.Status != StatusCompleted {
		t.Fatalf("SubmitEvidence: %v %s", err, done.Status)
	}
}

func TestNewTaskDefaults(t *testing.T) {
	task, err := NewTask(AddTaskInput{Title: "  Brush teeth ", Points: 10, Steps: []string{"top", "", "bottom"}})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Title != "Brush teeth" || task.Status != StatusPending || task.TimeOfDay != Morning || task.Recurrence != RecurrenceDaily {
		t.Fatalf("got %+v", task)
	}
	if len(task.Steps) != 2 || task.Steps[0].ID == "" || task.Steps[0].ID == task.Steps[1].ID {
		t.Fatalf("steps=%+v", task.Steps)
	}
	if _, err := NewTask(AddTaskInput{Title: " "}); !IsRejection(err) {
		t.Fatalf("empty title err=%v, want rejection", err)
	}
	if _, err := NewTask(AddTaskInput{Title: "x", Points: -1}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err=%v, want ErrInvalidAmount", err)
	}
}

func TestParse(t *testing.T) {
	if tod, err := ParseTimeOfDay("PM"); err != nil || tod != Afternoon {
		t.Fatalf("ParseTimeOfDay(PM)=%v,%v", tod, err)
	}
	if _, err := ParseTimeOfDay("dusk"); err == nil {
		t.Fatalf("expected error for dusk")
	}
	if c, err := ParseCurrency("Diamonds"); err != nil || c != Diamond {
		t.Fatalf("ParseCurrency=%v,%v", c, err)
	}
	if r, err := ParseRewardType("real-life"); err != nil || r != RewardRealLife {
		t.Fatalf("ParseRewardType=%v,%v", r, err)
	}
	if k, err := ParseAdjustKind("emeralds"); err != nil || k != AdjustEmerald {
		t.Fatalf("ParseAdjustKind=%v,%v", k, err)
	}
	if s, err := ParseStatus("approved"); err != nil || s != StatusApproved {
		t.Fatalf("ParseStatus=%v,%v", s, err)
	}
}

func TestWorldSeedFormat(t *testing.T) {
	i := 0
	seq := []int{0, 1, 0}
	got := newWorldSeed(func(n int) int {
		v := seq[i%len(seq)]
		i++
		return v
	})
	if got != "BRAVE-CREEPER-100" {
		t.Fatalf("seed=%q", got)
	}
	if s := NewWorldSeed(); len(s) < len("ENDER-GHAST-100") {
		t.Fatalf("seed too short: %q", s)
	}
}

func TestGoalContributionCapped(t *testing.T) {
	g := Goal{Title: "Trip", TargetEmeralds: 100, CurrentEmeralds: 95}
	g = ContributeToGoal(g, 10)
	if g.CurrentEmeralds != 100 || g.Percent() != 100 {
		t.Fatalf("goal=%+v pct=%d", g, g.Percent())
	}
	g2, err := ApplyGoal(g, "", 50)
	if err != nil || g2.Title != "Trip" || g2.CurrentEmeralds != 50 {
		t.Fatalf("ApplyGoal: %v %+v", err, g2)
	}
}

func TestApplySettingsKeepsLastReset(t *testing.T) {
	cur := DefaultSettings("Home")
	cur.LastReset = "2026-01-01"
	next, err := ApplySettings(cur, "9999", "", Rules{XPMultiplier: 2, DamageMultiplier: 0})
	if err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}
	if next.LastReset != "2026-01-01" || next.FamilyName != "Home" || next.ParentPin != "9999" {
		t.Fatalf("got %+v", next)
	}
	if _, err := ApplySettings(cur, "", "x", DefaultRules()); !IsRejection(err) {
		t.Fatalf("empty pin err=%v", err)
	}
}

func TestProfilePatchClampsHP(t *testing.T) {
	p := freshProfile()
	maxHP := 50
	next, err := ApplyProfilePatch(p, ProfilePatch{MaxHP: &maxHP})
	if err != nil {
		t.Fatalf("ApplyProfilePatch: %v", err)
	}
	if next.MaxHP != 50 || next.HP != 50 {
		t.Fatalf("hp=%d/%d", next.HP, next.MaxHP)
	}
	mode := SensoryMode("loud")
	if _, err := ApplyProfilePatch(p, ProfilePatch{SensoryMode: &mode}); !IsRejection(err) {
		t.Fatalf("err=%v, want rejection", err)
	}
}

func TestValidate(t *testing.T) {
	p := freshProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
	p.Experience = RequiredXP(p.Level)
	var inv InvariantError
	if err := p.Validate(); !errors.As(err, &inv) || inv.Field != "experience" {
		t.Fatalf("err=%v, want experience invariant", err)
	}
}
