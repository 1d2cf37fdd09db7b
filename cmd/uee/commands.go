package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/logging"
	"github.com/athena-uee/uee/internal/scripts"
	"github.com/athena-uee/uee/internal/system"
	"github.com/athena-uee/uee/internal/ui"
)

// androidConfirmPhrase must be typed before an Android wipe.
const androidConfirmPhrase = "CONFIRM"

// Command flags
var (
	viewConfig    bool
	setPattern    string
	setPasses     int
	formatPattern string
	formatPasses  int
	assumeYes     bool
)

func init() {
	rootCmd.AddCommand(listDrivesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(androidWipeCmd)
	rootCmd.AddCommand(checkCmd)
}

// checkCmd reports which external tools the scripts can find
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the tools the wipe scripts call are installed",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	seen := map[string]bool{}
	var tools []system.Tool
	for _, fs := range scripts.Filesystems() {
		for _, t := range scripts.FormatTools(fs) {
			if !seen[t.Name] {
				seen[t.Name] = true
				tools = append(tools, t)
			}
		}
	}
	tools = append(tools, scripts.AndroidTools()...)

	fmt.Println("Script prerequisites:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	report := system.CheckTools(tools)
	fmt.Print(report.Format())
	return report.Err()
}

// listDrivesCmd prints the drive inventory
var listDrivesCmd = &cobra.Command{
	Use:   "list-drives",
	Short: "List whole disks that can be wiped",
	Long: `List the top-level disks reported by lsblk.

Optical drives and loop devices are never listed.`,
	RunE: runListDrives,
}

func runListDrives(cmd *cobra.Command, args []string) error {
	inv := drives.NewInventory(drives.ExecRunner, logging.Named("drives"))
	records, err := inv.Refresh(cmd.Context())
	if err != nil && !errors.Is(err, drives.ErrNoDrives) {
		return fmt.Errorf("drive scan failed: %w", err)
	}

	fmt.Println(ui.RenderDriveTable(records))
	if !drives.Usable(records) {
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check that the disk is attached and visible in dmesg")
		fmt.Println("  - USB enclosures may need a few seconds after plugging in")
	}
	return nil
}

// configCmd views or edits the saved wipe configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change the saved wipe configuration",
	Example: `  # Show the current configuration
  uee config --view

  # Three random passes
  uee config --set-pattern random --set-passes 3`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&viewConfig, "view", false, "Print the configuration")
	configCmd.Flags().StringVar(&setPattern, "set-pattern", "", "Set the overwrite pattern (zeros, ones, random, none)")
	configCmd.Flags().IntVar(&setPasses, "set-passes", 0, "Set the number of overwrite passes")
}

func runConfig(cmd *cobra.Command, args []string) error {
	store := config.NewStore(configPath, logging.Named("config"))
	cfg, err := store.Load()
	if err != nil {
		color.Yellow("Config error, using defaults: %v", err)
	}

	changed := false
	if cmd.Flags().Changed("set-pattern") {
		p, err := config.ParsePattern(setPattern)
		if err != nil {
			return err
		}
		cfg.Pattern = p
		changed = true
	}
	if cmd.Flags().Changed("set-passes") {
		if setPasses < 1 {
			return fmt.Errorf("passes must be at least 1, got %d", setPasses)
		}
		cfg.Passes = setPasses
		changed = true
	}

	if changed {
		if err := store.Save(cfg); err != nil {
			return err
		}
		color.Green("Config saved to %s", store.Path())
	}
	if viewConfig || !changed {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Printf("# %s\n%s", store.Path(), out)
	}
	return nil
}

// formatCmd wipes and formats one disk
var formatCmd = &cobra.Command{
	Use:   "format <disk> <filesystem>",
	Short: "Wipe and format a whole disk",
	Long: `Overwrite a disk with the chosen pattern, then create a single-partition
GPT layout formatted with the chosen filesystem.

Filesystems: ext4, fat32, exfat, ntfs. Without --yes you must type the
disk name (for example "sdb") to proceed.`,
	Example: `  # Quick format, no overwrite
  uee format /dev/sdb ext4 --pattern none

  # Two zero passes then exFAT
  uee format /dev/sdb exfat --pattern zeros --passes 2`,
	Args: cobra.ExactArgs(2),
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().StringVar(&formatPattern, "pattern", "", "Overwrite pattern (default: saved config)")
	formatCmd.Flags().IntVar(&formatPasses, "passes", 0, "Overwrite passes (default: saved config)")
	formatCmd.Flags().BoolVar(&assumeYes, "yes", false, "Skip the typed confirmation")
}

func runFormat(cmd *cobra.Command, args []string) error {
	device, fsArg := args[0], args[1]

	fs, err := scripts.ParseFilesystem(fsArg)
	if err != nil {
		return err
	}

	store := config.NewStore(configPath, logging.Named("config"))
	cfg, err := store.Load()
	if err != nil {
		color.Yellow("Config error, using defaults: %v", err)
	}
	if cmd.Flags().Changed("pattern") {
		if cfg.Pattern, err = config.ParsePattern(formatPattern); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("passes") {
		cfg.Passes = formatPasses
	}
	if cfg.Pattern == config.PatternNone {
		cfg.Passes = 1
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := system.IsBlockDevice(device); err != nil {
		return err
	}
	if report := system.CheckTools(scripts.FormatTools(fs)); !report.AllAvailable {
		fmt.Print(report.Format())
		return report.Err()
	}
	inv := drives.NewInventory(drives.ExecRunner, logging.Named("drives"))
	records, err := inv.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("drive scan failed: %w", err)
	}
	target, ok := drives.Find(records, device)
	if !ok {
		return fmt.Errorf("%s is not a listed top-level drive (see 'uee list-drives')", device)
	}

	header := ui.NewHeader("Format", "uee format "+device+" "+string(fs),
		ui.Field{Key: "Drive", Value: target.Label()},
		ui.Field{Key: "Filesystem", Value: string(fs)},
		ui.Field{Key: "Pattern", Value: string(cfg.Pattern)},
		ui.Field{Key: "Passes", Value: strconv.Itoa(cfg.Passes)},
	)
	fmt.Println(header.Render())
	fmt.Println()

	if !assumeYes {
		warnings := []string{
			"Every partition and file on " + target.Name + " will be destroyed",
			"This cannot be undone",
		}
		if !ui.ConfirmTypedPhrase(os.Stdin, os.Stdout, "Format "+target.Name, warnings, target.Basename()) {
			return nil
		}
	}

	color.New(color.FgRed, color.Bold).Printf("Starting operation on %s...\n\n", target.Name)
	return runScript(cmd.Context(), scripts.Format, "Format "+target.Name,
		[]string{"Confirm the disk is not mounted or in use", "Check dmesg for I/O errors"},
		scripts.FormatArgs(target.Name, fs, cfg.Pattern, cfg.Passes)...)
}

// androidWipeCmd factory-resets every attached Android device
var androidWipeCmd = &cobra.Command{
	Use:   "android-wipe",
	Short: "Factory-reset all attached Android devices",
	Long: `Reboot every device listed by adb into recovery and request a data wipe.

USB debugging must be enabled and authorized on each device.`,
	Args: cobra.NoArgs,
	RunE: runAndroidWipe,
}

func init() {
	androidWipeCmd.Flags().BoolVar(&assumeYes, "yes", false, "Skip the typed confirmation")
}

func runAndroidWipe(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.NewHeader("Android Wipe", "uee android-wipe").Render())
	fmt.Println()

	if !assumeYes {
		warnings := []string{
			"Every connected Android device will be factory reset",
			"All user data on those devices will be lost",
		}
		if !ui.ConfirmTypedPhrase(os.Stdin, os.Stdout, "Android factory reset", warnings, androidConfirmPhrase) {
			return nil
		}
	}

	color.New(color.FgRed, color.Bold).Println("Starting Android wipe...")
	fmt.Println()
	return runScript(cmd.Context(), scripts.AndroidWipe, "Android Wipe",
		[]string{"Enable USB debugging and accept the host key on each device", "Run 'adb devices' to check the connection"})
}

// runScript materializes s into a private temporary directory under the
// work dir, streams it to stdout and removes it afterwards.
func runScript(ctx context.Context, s scripts.Script, title string, tips []string, args ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(workDir, 0o700); err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	dir, err := os.MkdirTemp(workDir, "run-")
	if err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path, err := scripts.NewMaterializer(dir, logging.Named("scripts")).Materialize(s)
	if err != nil {
		return err
	}

	proc := newSupervisor().Launch(path, args...)
	logging.Info("Script launched")

	runner := ui.NewScriptRunner(title, s.FileName, os.Stdout, logging.Named("runner"))
	runner.PollInterval = 100 * time.Millisecond
	runner.Troubleshooting = tips
	return runner.Run(ctx, proc)
}
