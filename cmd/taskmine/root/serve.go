package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/config"
	"github.com/lucasalcantarap/TaskMine/internal/network"
	"github.com/lucasalcantarap/TaskMine/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the household server (websocket, HTTP API and scheduler)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			flags.verbose = true
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			if _, err := a.svc.Snapshot(ctx); err != nil {
				return err
			}

			if a.src.Watch(func(cfg *config.Config, err error) {
				if err != nil {
					a.log.Warn("config reload ignored: %v", err)
					return
				}
				a.svc.SetTuning(cfg.Tuning())
				a.log.Info("engine tuning reloaded from %s", a.src.File())
			}) {
				a.log.Info("watching %s for changes", a.src.File())
			}

			if _, err := startScheduler(ctx, a, scheduler.SystemClock{}); err != nil {
				return err
			}

			a.log.Info("serving world %s", a.svc.Family())
			err = network.NewServer(a.svc, a.log).ListenAndServe(ctx, addr)
			a.log.Info("shut down")
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")

	return cmd
}
