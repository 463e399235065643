package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lucasalcantarap/TaskMine/internal/logger"
	"github.com/lucasalcantarap/TaskMine/internal/storage"
)

// ErrNoWorld is returned when the family has not been created yet.
var ErrNoWorld = errors.New("world not found (run `taskmine init` first)")

// Service is the action surface over one family's stored state. Every
// action loads the current state, runs the pure rules, and writes all
// changed entities in a single batch. Rejected actions write nothing.
type Service struct {
	store  *storage.Store
	family string
	log    *logger.Logger
	now    func() time.Time

	mu sync.Mutex // serializes read-modify-write cycles

	tunMu sync.RWMutex
	tun   Tuning
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the wall clock used for timestamps and time windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTuning(t Tuning) Option {
	return func(s *Service) { s.tun = t }
}

func NewService(store *storage.Store, family string, opts ...Option) *Service {
	s := &Service{
		store:  store,
		family: family,
		log:    logger.Discard(),
		now:    time.Now,
		tun:    DefaultTuning(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Family() string         { return s.family }
func (s *Service) Store() *storage.Store  { return s.store }
func (s *Service) Logger() *logger.Logger { return s.log }
func (s *Service) Now() time.Time         { return s.now() }

func (s *Service) Tuning() Tuning {
	s.tunMu.RLock()
	defer s.tunMu.RUnlock()
	return s.tun
}

// SetTuning swaps the numeric knobs used by subsequent actions.
func (s *Service) SetTuning(t Tuning) {
	s.tunMu.Lock()
	s.tun = t
	s.tunMu.Unlock()
	s.log.Info("tuning updated: %+v", t)
}

// Subscribe notifies on every committed change to this family.
func (s *Service) Subscribe() (<-chan storage.Change, func()) {
	return s.store.Subscribe(s.family)
}

// Snapshot returns the current state including the recent activity window.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	acts, err := s.activities(ctx, s.Tuning().ActivityWindow)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Activities = acts
	return snap, nil
}

func (s *Service) load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Family: s.family}
	ok, err := s.store.Get(ctx, s.family, storage.KeyProfile, &snap.Profile)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{}, ErrNoWorld
	}
	docs := []struct {
		key string
		out any
	}{
		{storage.KeyTasks, &snap.Tasks},
		{storage.KeyRewards, &snap.Rewards},
		{storage.KeySettings, &snap.Settings},
		{storage.KeyPenalties, &snap.Penalties},
		{storage.KeyGoal, &snap.Goal},
		{storage.KeyMessages, &snap.Messages},
	}
	for _, d := range docs {
		if _, err := s.store.Get(ctx, s.family, d.key, d.out); err != nil {
			return Snapshot{}, err
		}
	}
	if snap.Profile.Inventory == nil {
		snap.Profile.Inventory = map[string]int{}
	}
	if snap.Penalties == nil {
		snap.Penalties = Penalties{}
	}
	return snap, nil
}

func (s *Service) activities(ctx context.Context, limit int) ([]Activity, error) {
	items, err := s.store.List(ctx, s.family, storage.ListActivities, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Activity, 0, len(items))
	for _, it := range items {
		var a Activity
		if err := decodeJSON(it.Value, &a); err != nil {
			return nil, fmt.Errorf("decode activity %s: %w", it.ID, err)
		}
		if a.ID == "" {
			a.ID = it.ID
		}
		out = append(out, a)
	}
	return out, nil
}

// writer stages the writes of one action.
type writer struct {
	snap  *Snapshot
	batch *storage.Batch
	now   time.Time
	tun   Tuning
	acts  []Activity
}

func (w *writer) profile(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	w.snap.Profile = p
	w.batch.Put(storage.KeyProfile, p)
	return nil
}

func (w *writer) tasks(ts []Task) {
	if ts == nil {
		ts = []Task{}
	}
	w.snap.Tasks = ts
	w.batch.Put(storage.KeyTasks, ts)
}

func (w *writer) rewards(rs []Reward) {
	if rs == nil {
		rs = []Reward{}
	}
	w.snap.Rewards = rs
	w.batch.Put(storage.KeyRewards, rs)
}

func (w *writer) settings(st Settings) {
	w.snap.Settings = st
	w.batch.Put(storage.KeySettings, st)
}

func (w *writer) penalties(p Penalties) {
	w.snap.Penalties = p
	w.batch.Put(storage.KeyPenalties, p)
}

func (w *writer) goal(g Goal) {
	w.snap.Goal = g
	w.batch.Put(storage.KeyGoal, g)
}

func (w *writer) messages(ms []Message) {
	if ms == nil {
		ms = []Message{}
	}
	w.snap.Messages = ms
	w.batch.Put(storage.KeyMessages, ms)
}

func (w *writer) message(text string, from Sender) Message {
	m := Message{ID: uuid.NewString(), Text: text, Sender: from, Timestamp: w.now}
	w.messages(append(append([]Message(nil), w.snap.Messages...), m))
	return m
}

func (w *writer) activity(typ ActivityType, detail string, amount int, currency string) {
	a := Activity{
		ID:        uuid.NewString(),
		Type:      typ,
		User:      w.snap.Profile.Name,
		Detail:    detail,
		Timestamp: w.now,
		Amount:    amount,
		Currency:  currency,
	}
	w.acts = append(w.acts, a)
	w.batch.Append(storage.ListActivities, a.ID, a)
}

// mutate runs fn against the latest state and commits what it staged.
func (s *Service) mutate(ctx context.Context, op string, fn func(w *writer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	tun := s.Tuning()
	w := &writer{snap: &snap, batch: storage.NewBatch(), now: s.now(), tun: tun}

	if err := fn(w); err != nil {
		var inv InvariantError
		switch {
		case IsRejection(err):
			s.log.Warn("%s rejected: %v", op, err)
		case errors.As(err, &inv):
			s.log.Error("%s aborted: %v", op, err)
		default:
			s.log.Error("%s failed: %v", op, err)
		}
		return err
	}
	if w.batch.Empty() {
		return nil
	}
	if len(w.acts) > 0 {
		w.batch.Trim(storage.ListActivities, tun.ActivityWindow)
	}
	if err := s.store.SaveBatch(ctx, s.family, w.batch); err != nil {
		s.log.Error("%s: save failed: %v", op, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, a := range w.acts {
		s.log.Event(string(a.Type), a.User, a.Detail)
	}
	return nil
}

type CreateWorldInput struct {
	FamilyName string `json:"familyName"`
	PlayerName string `json:"playerName"`
	ParentPin  string `json:"parentPin,omitempty"`
}

// CreateWorld seeds a new family with the default profile, settings,
// catalog and goal. It reports false and leaves an existing world alone.
func (s *Service) CreateWorld(ctx context.Context, in CreateWorldInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing Profile
	ok, err := s.store.Get(ctx, s.family, storage.KeyProfile, &existing)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	tun := s.Tuning()
	now := s.now()
	settings := DefaultSettings(in.FamilyName)
	if pin := strings.TrimSpace(in.ParentPin); pin != "" {
		settings.ParentPin = pin
	}
	settings.LastReset = now.Format(DayFormat)
	profile := DefaultProfile(strings.TrimSpace(in.PlayerName), tun)

	b := storage.NewBatch()
	b.Put(storage.KeyProfile, profile)
	b.Put(storage.KeyTasks, []Task{})
	b.Put(storage.KeyRewards, DefaultRewards())
	b.Put(storage.KeySettings, settings)
	b.Put(storage.KeyPenalties, Penalties{})
	b.Put(storage.KeyGoal, DefaultGoal())
	b.Put(storage.KeyMessages, []Message{})
	b.Append(storage.ListActivities, "", Activity{
		Type:      ActivitySystemReset,
		User:      profile.Name,
		Detail:    "World created: " + settings.FamilyName,
		Timestamp: now,
	})
	if err := s.store.SaveBatch(ctx, s.family, b); err != nil {
		return false, fmt.Errorf("create world: %w", err)
	}
	s.log.Event(string(ActivitySystemReset), profile.Name, "world "+s.family+" created")
	return true, nil
}
