// Uee is the Universal Erase Engine operator console.
//
// It wipes and formats whole disks and factory-resets attached Android
// devices by running embedded shell scripts, either from a full-screen
// menu console or from one-shot commands.
//
// Usage:
//
//	uee [command] [flags]
//
// Running without arguments launches the console. Every command except
// version and help must run as root.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/console"
	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/logging"
	"github.com/athena-uee/uee/internal/scripts"
	"github.com/athena-uee/uee/internal/supervisor"
	"github.com/athena-uee/uee/internal/system"
	"github.com/athena-uee/uee/internal/tui"
	"github.com/athena-uee/uee/internal/version"
)

// Global flags
var (
	configPath  string
	workDir     string
	interpreter string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "uee",
	Short: "UEE - Universal Erase Engine",
	Long: `Universal Erase Engine: secure disk wiping, formatting and Android
factory resets from one console.

If no command is specified, the interactive console launches.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.InitializeFromEnv(cmd == cmd.Root()); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		switch cmd.Name() {
		case "version", "help", "check":
			return nil
		}
		return system.CheckPrivilege()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runConsole,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFileName, "Path to the wipe configuration file")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", scripts.DefaultDir(), "Directory scripts are written to before running")
	rootCmd.PersistentFlags().StringVar(&interpreter, "interpreter", supervisor.DefaultConfig().Interpreter, "Shell used to run scripts")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("uee %s\n", version.Full())
	},
}

func newSupervisor() *supervisor.Supervisor {
	cfg := supervisor.DefaultConfig()
	cfg.Interpreter = interpreter
	return supervisor.New(cfg, logging.Named("supervisor"))
}

func runConsole(cmd *cobra.Command, args []string) error {
	deps := console.Deps{
		Inventory:    drives.NewInventory(drives.ExecRunner, logging.Named("drives")),
		Store:        config.NewStore(configPath, logging.Named("config")),
		Materializer: scripts.NewMaterializer(workDir, logging.Named("scripts")),
		Launcher:     console.SupervisorLauncher{Supervisor: newSupervisor()},
	}

	ctrl := console.NewController(deps, logging.Named("console"))
	ctrl.Start(context.Background())

	logging.Info("Console started")
	return tui.Run(ctrl)
}
