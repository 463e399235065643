package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucasalcantarap/TaskMine/internal/config"
	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/logger"
	"github.com/lucasalcantarap/TaskMine/internal/storage"
)

// app is what every command needs: settings, the open store and the
// service bound to one family.
type app struct {
	src   *config.Source
	cfg   *config.Config
	store *storage.Store
	svc   *engine.Service
	log   *logger.Logger
}

func (a *app) close() {
	_ = a.store.Close()
}

func loadConfig() (*config.Source, *config.Config, error) {
	src, err := config.Open(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := src.Config()
	if err != nil {
		return nil, nil, err
	}
	if f := strings.TrimSpace(flags.family); f != "" {
		cfg.Family.ID = f
	}
	if flags.dbPath != "" {
		cfg.DB.Path = flags.dbPath
	}
	return src, cfg, nil
}

func openApp(ctx context.Context) (*app, error) {
	src, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, cfg.DB.Path)
	if err != nil {
		return nil, err
	}

	log := logger.Discard()
	if flags.verbose {
		log = logger.New()
	}
	svc := engine.NewService(store, cfg.Family.ID,
		engine.WithLogger(log),
		engine.WithTuning(cfg.Tuning()),
	)
	return &app{src: src, cfg: cfg, store: store, svc: svc, log: log}, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	a, err := openApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	return a.svc, a.close, nil
}

// asParent checks the --pin flag against the stored parent PIN.
func asParent(ctx context.Context, svc *engine.Service) error {
	if flags.pin == "" {
		return fmt.Errorf("this is a parent command: pass --pin or set TASKMINE_PIN")
	}
	return svc.CheckPin(ctx, flags.pin)
}

// findTask resolves a task by full id or unique id prefix.
func findTask(snap engine.Snapshot, ref string) (engine.Task, error) {
	ref = strings.TrimSpace(ref)
	var hit *engine.Task
	for i := range snap.Tasks {
		t := &snap.Tasks[i]
		if t.ID == ref {
			return *t, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			if hit != nil {
				return engine.Task{}, fmt.Errorf("task id %q is ambiguous", ref)
			}
			hit = t
		}
	}
	if hit == nil {
		return engine.Task{}, engine.ErrTaskNotFound
	}
	return *hit, nil
}

// findReward resolves a reward by id or case-insensitive title.
func findReward(snap engine.Snapshot, ref string) (engine.Reward, error) {
	ref = strings.TrimSpace(ref)
	if r, err := snap.Reward(ref); err == nil {
		return r, nil
	}
	for _, r := range snap.Rewards {
		if strings.EqualFold(r.Title, ref) {
			return r, nil
		}
	}
	return engine.Reward{}, engine.ErrRewardNotFound
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
