package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

const Version = "0.1.0"

type globalFlags struct {
	configPath string
	family     string
	dbPath     string
	pin        string
	verbose    bool
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:           "taskmine",
	Short:         "TaskMine: a block-building quest board for household chores",
	Long:          "TaskMine turns a child's daily chores into quests with XP, HP, currencies and a block world to build, reviewed by a parent.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/taskmine/config.yaml)")
	pf.StringVarP(&flags.family, "family", "f", "", "Family (world) id, overrides family.id")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path, overrides db.path")
	pf.StringVar(&flags.pin, "pin", os.Getenv("TASKMINE_PIN"), "Parent PIN for parent-only commands")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log actions and events")

	rootCmd.AddCommand(
		newInitCmd(),
		newTaskCmd(),
		newShopCmd(),
		newBuildCmd(),
		newAdjustCmd(),
		newStatusCmd(),
		newTickCmd(),
		newSettingsCmd(),
		newMessageCmd(),
		newGoalCmd(),
		newServeCmd(),
		newBoardCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
