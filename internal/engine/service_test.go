package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucasalcantarap/TaskMine/internal/storage"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestService(t *testing.T, at time.Time) (*Service, *testClock) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := &testClock{t: at}
	svc := NewService(store, "BRAVE-STEVE-123", WithClock(clock.now))
	created, err := svc.CreateWorld(ctx, CreateWorldInput{FamilyName: "Test", PlayerName: "Alex"})
	if err != nil {
		t.Fatalf("CreateWorld: %v", err)
	}
	if !created {
		t.Fatalf("expected a new world")
	}
	return svc, clock
}

func at(hour int) time.Time {
	return time.Date(2026, 5, 4, hour, 0, 0, 0, time.Local)
}

func mustSnapshot(t *testing.T, svc *Service) Snapshot {
	t.Helper()
	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap
}

func TestCreateWorldSeedsDefaultsOnce(t *testing.T) {
	svc, _ := newTestService(t, at(8))
	ctx := context.Background()

	snap := mustSnapshot(t, svc)
	if snap.Profile.Name != "Alex" || snap.Profile.Level != 1 || snap.Profile.HP != 100 {
		t.Fatalf("profile=%+v", snap.Profile)
	}
	if len(snap.Rewards) != len(DefaultRewards()) || snap.Settings.ParentPin != DefaultParentPin {
		t.Fatalf("rewards=%d pin=%q", len(snap.Rewards), snap.Settings.ParentPin)
	}
	if snap.Settings.LastReset != "2026-05-04" {
		t.Fatalf("lastReset=%q", snap.Settings.LastReset)
	}

	created, err := svc.CreateWorld(ctx, CreateWorldInput{PlayerName: "Other"})
	if err != nil || created {
		t.Fatalf("second CreateWorld created=%v err=%v", created, err)
	}
	if got := mustSnapshot(t, svc).Profile.Name; got != "Alex" {
		t.Fatalf("existing world overwritten: %q", got)
	}
}

func TestSnapshotWithoutWorld(t *testing.T) {
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	svc := NewService(store, "nobody")
	if _, err := svc.Snapshot(context.Background()); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("err=%v, want ErrNoWorld", err)
	}
}

func TestQuestFlowThroughService(t *testing.T) {
	svc, _ := newTestService(t, at(9))
	ctx := context.Background()

	task, err := svc.AddTask(ctx, AddTaskInput{Title: "Tidy room", TimeOfDay: Afternoon, Points: 150, Emeralds: 30, Steps: []string{"toys"}})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.StartTask(ctx, task.ID); err != nil {
		t.Fatalf("StartTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, task.ID, "img://1", EvidencePhoto); !errors.Is(err, ErrStepsIncomplete) {
		t.Fatalf("err=%v, want ErrStepsIncomplete", err)
	}
	if _, err := svc.ToggleStep(ctx, task.ID, task.Steps[0].ID); err != nil {
		t.Fatalf("ToggleStep: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, task.ID, "img://1", EvidencePhoto); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if got := mustSnapshot(t, svc).AwaitingReview(); len(got) != 1 {
		t.Fatalf("awaiting review=%d, want 1", len(got))
	}

	res, err := svc.ApproveTask(ctx, task.ID, "Nice!")
	if err != nil {
		t.Fatalf("ApproveTask: %v", err)
	}
	if !res.LevelUp() || res.Task.Status != StatusApproved {
		t.Fatalf("result=%+v", res)
	}

	snap := mustSnapshot(t, svc)
	if snap.Profile.Level != 2 || snap.Profile.Experience != 50 || snap.Profile.Emeralds != 30 || snap.Profile.Diamonds != 1 {
		t.Fatalf("profile=%+v", snap.Profile)
	}
	if snap.Goal.CurrentEmeralds != 30 {
		t.Fatalf("goal=%+v", snap.Goal)
	}
	if snap.UnreadFrom(SenderMaster) != 1 {
		t.Fatalf("unread=%d, want 1", snap.UnreadFrom(SenderMaster))
	}
	types := map[ActivityType]bool{}
	for _, a := range snap.Activities {
		types[a.Type] = true
	}
	for _, want := range []ActivityType{ActivityTaskDone, ActivityTaskApproved, ActivityLevelUp, ActivitySystemReset} {
		if !types[want] {
			t.Fatalf("missing activity %s in %+v", want, snap.Activities)
		}
	}

	n, err := svc.MarkMessagesRead(ctx, SenderMaster)
	if err != nil || n != 1 {
		t.Fatalf("MarkMessagesRead n=%d err=%v", n, err)
	}
}

func TestRejectedActionWritesNothing(t *testing.T) {
	svc, _ := newTestService(t, at(9))
	ctx := context.Background()

	before := mustSnapshot(t, svc)
	if _, err := svc.BuyReward(ctx, "2"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err=%v, want ErrInsufficientFunds", err)
	}
	if _, err := svc.BuyReward(ctx, "missing"); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("err=%v, want ErrRewardNotFound", err)
	}
	after := mustSnapshot(t, svc)
	if after.Profile.Emeralds != before.Profile.Emeralds || len(after.Activities) != len(before.Activities) {
		t.Fatalf("state changed after rejected purchase")
	}
}

func TestBuyAndBuild(t *testing.T) {
	svc, _ := newTestService(t, at(9))
	ctx := context.Background()

	if _, err := svc.AdjustCurrency(ctx, 35, AdjustEmerald); err != nil {
		t.Fatalf("AdjustCurrency: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.BuyReward(ctx, "1"); err != nil {
			t.Fatalf("BuyReward #%d: %v", i+1, err)
		}
	}
	if _, err := svc.BuyReward(ctx, "1"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err=%v, want ErrInsufficientFunds", err)
	}

	if err := svc.PlaceBlock(ctx, "1", 0, 0); err != nil {
		t.Fatalf("PlaceBlock: %v", err)
	}
	n, err := svc.FillBlocks(ctx, "1", 5, 5)
	if err != nil || n != 2 {
		t.Fatalf("FillBlocks n=%d err=%v", n, err)
	}
	if err := svc.PlaceBlock(ctx, "1", 1, 1); !errors.Is(err, ErrEmptyInventory) {
		t.Fatalf("err=%v, want ErrEmptyInventory", err)
	}
	erased, err := svc.EraseBlock(ctx, 0, 0)
	if err != nil || !erased {
		t.Fatalf("EraseBlock erased=%v err=%v", erased, err)
	}

	snap := mustSnapshot(t, svc)
	if snap.Profile.Inventory["1"]+PlacedCount(snap.Profile, "1") != 3 {
		t.Fatalf("blocks not conserved: %+v", snap.Profile)
	}

	if err := svc.ClearCanvas(ctx); err != nil {
		t.Fatalf("ClearCanvas: %v", err)
	}
	snap = mustSnapshot(t, svc)
	if len(snap.Profile.WorldBlocks) != 0 || snap.Profile.Inventory["1"] != 3 {
		t.Fatalf("after clear: %+v", snap.Profile)
	}

	rules := snap.Settings.Rules
	rules.AllowBuilder = false
	if _, err := svc.UpdateSettings(ctx, "1234", "", rules); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if err := svc.PlaceBlock(ctx, "1", 0, 0); !errors.Is(err, ErrBuilderClosed) {
		t.Fatalf("err=%v, want ErrBuilderClosed", err)
	}
}

func TestMorningTaskSweptOnce(t *testing.T) {
	svc, clock := newTestService(t, at(9))
	ctx := context.Background()

	task, err := svc.AddTask(ctx, AddTaskInput{Title: "Make bed", TimeOfDay: Morning, Points: 10})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	res, err := svc.RunPenaltySweep(ctx, clock.now())
	if err != nil || res.Changed() {
		t.Fatalf("morning sweep changed=%v err=%v", res.Changed(), err)
	}

	clock.t = at(12)
	res, err = svc.RunPenaltySweep(ctx, clock.now())
	if err != nil || len(res.Failed) != 1 {
		t.Fatalf("noon sweep failed=%d err=%v", len(res.Failed), err)
	}
	res, err = svc.RunPenaltySweep(ctx, clock.now())
	if err != nil || res.Changed() {
		t.Fatalf("repeat sweep changed=%v err=%v", res.Changed(), err)
	}

	snap := mustSnapshot(t, svc)
	got, _, _ := snap.Task(task.ID)
	if got.Status != StatusFailed || snap.Profile.HP != 100-DefaultTuning().PenaltyDamage {
		t.Fatalf("status=%s hp=%d", got.Status, snap.Profile.HP)
	}
	if _, err := svc.StartTask(ctx, task.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v, want ErrInvalidTransition", err)
	}

	clock.t = at(8).AddDate(0, 0, 1)
	reset, err := svc.RunDailyReset(ctx, clock.now())
	if err != nil || !reset.Changed || reset.Reset != 1 {
		t.Fatalf("reset=%+v err=%v", reset, err)
	}
	again, err := svc.RunDailyReset(ctx, clock.now())
	if err != nil || again.Changed {
		t.Fatalf("second reset changed=%v err=%v", again.Changed, err)
	}
	snap = mustSnapshot(t, svc)
	got, _, _ = snap.Task(task.ID)
	if got.Status != StatusPending || len(snap.Penalties) != 0 {
		t.Fatalf("status=%s penalties=%v", got.Status, snap.Penalties)
	}
}

func TestAdminActions(t *testing.T) {
	svc, _ := newTestService(t, at(9))
	ctx := context.Background()

	if err := svc.CheckPin(ctx, "0000"); !errors.Is(err, ErrWrongPin) {
		t.Fatalf("err=%v, want ErrWrongPin", err)
	}
	if err := svc.CheckPin(ctx, DefaultParentPin); err != nil {
		t.Fatalf("CheckPin: %v", err)
	}

	r, err := svc.AddReward(ctx, AddRewardInput{Title: "Ice cream", Cost: 3, Currency: Diamond})
	if err != nil {
		t.Fatalf("AddReward: %v", err)
	}
	if err := svc.DeleteReward(ctx, r.ID); err != nil {
		t.Fatalf("DeleteReward: %v", err)
	}
	if err := svc.DeleteReward(ctx, r.ID); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("err=%v, want ErrRewardNotFound", err)
	}

	g, err := svc.UpdateGoal(ctx, "Zoo", 200)
	if err != nil || g.Title != "Zoo" || g.TargetEmeralds != 200 {
		t.Fatalf("UpdateGoal=%+v err=%v", g, err)
	}

	name := "Sam"
	p, err := svc.UpdateProfile(ctx, ProfilePatch{Name: &name})
	if err != nil || p.Name != "Sam" {
		t.Fatalf("UpdateProfile=%+v err=%v", p, err)
	}

	if _, err := svc.SendMessage(ctx, "hi", SenderPlayer); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := svc.SendMessage(ctx, "  ", SenderPlayer); !IsRejection(err) {
		t.Fatalf("empty message err=%v", err)
	}

	task, _ := svc.AddTask(ctx, AddTaskInput{Title: "A"})
	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err=%v, want ErrTaskNotFound", err)
	}

	a, _ := svc.AddTask(ctx, AddTaskInput{Title: "A"})
	b, _ := svc.AddTask(ctx, AddTaskInput{Title: "B"})
	if err := svc.UpdateTasks(ctx, []Task{b, a}); err != nil {
		t.Fatalf("UpdateTasks: %v", err)
	}
	if got := mustSnapshot(t, svc).Tasks; got[0].ID != b.ID {
		t.Fatalf("order not updated")
	}
	if err := svc.UpdateTasks(ctx, []Task{a, a}); !IsRejection(err) {
		t.Fatalf("duplicate ids err=%v", err)
	}
}

func TestSetTuningAffectsNextAction(t *testing.T) {
	svc, _ := newTestService(t, at(9))
	ctx := context.Background()

	tun := svc.Tuning()
	tun.BonusDiamondsPerLevel = 5
	svc.SetTuning(tun)

	if _, err := svc.AdjustCurrency(ctx, 100, AdjustXP); err != nil {
		t.Fatalf("AdjustCurrency: %v", err)
	}
	if got := mustSnapshot(t, svc).Profile.Diamonds; got != 5 {
		t.Fatalf("diamonds=%d, want 5", got)
	}
}
