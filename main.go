package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dialtimer/internal"
	"dialtimer/internal/config"
	"dialtimer/internal/logger"
	"dialtimer/internal/preset"
	"dialtimer/internal/timer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	fullTime   time.Duration
	countdown  bool
	dbPath     string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "dialtimer",
		Short:         "Circular countdown and stopwatch dial for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.dialtimer/config.yaml)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "sqlite database path")
	root.Flags().DurationVar(&flags.fullTime, "full-time", 0, "full time of the Default preset created for a new database, e.g. 25m")
	root.Flags().BoolVar(&flags.countdown, "countdown", true, "countdown mode of the Default preset created for a new database")

	root.AddCommand(newLogsCmd(&flags))
	root.AddCommand(newPresetCmd(&flags))
	return root
}

// loadConfig reads the config file and applies flags given on the command
// line on top of it.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("full-time"); f != nil && f.Changed {
		cfg.Dial.FullTime = flags.fullTime
	}
	if f := cmd.Flags().Lookup("countdown"); f != nil && f.Changed {
		cfg.Dial.Countdown = flags.countdown
	}
	if flags.dbPath != "" {
		cfg.Database.Path = flags.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openRepo(cmd *cobra.Command, flags *rootFlags) (*preset.Repository, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	repo, err := preset.NewRepository(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return repo, nil
}

func runTUI(cfg *config.Config) error {
	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	repo, err := preset.NewRepository(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	m, err := internal.NewModel(cfg, repo, log)
	if err != nil {
		repo.Close()
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ticker := timer.New(cfg.UI.TickInterval)
	m.SetTicker(ticker)
	ticker.Start(func() {
		p.Send(internal.MsgTick{})
	})
	defer ticker.Stop()

	log.Info().Str("preset", m.ActivePreset.Name).Int("full_ms", m.Dial.FullTime()).Str("db", cfg.Database.Path).Msg("starting")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func newLogsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "List logged runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := openRepo(cmd, flags)
			if err != nil {
				return err
			}
			defer repo.Close()

			logs, err := repo.GetAllLogs()
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no runs")
				return nil
			}
			for _, lp := range logs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
					lp.Log.StoppedAt.Format("2006-01-02 15:04"), lp.PresetName,
					lp.Log.Elapsed.Round(time.Second), lp.Log.Outcome, lp.Log.Tag)
			}
			return nil
		},
	}
}

func newPresetCmd(flags *rootFlags) *cobra.Command {
	presetCmd := &cobra.Command{Use: "preset", Short: "Manage dial presets"}

	var countdown, forward, backward bool
	add := &cobra.Command{
		Use:   "add <name> <duration>",
		Short: "Add a preset; duration is minutes or a value like 1m30s",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := preset.ParseDuration(args[1])
			if err != nil {
				return err
			}
			repo, err := openRepo(cmd, flags)
			if err != nil {
				return err
			}
			defer repo.Close()

			p := preset.NewPreset(args[0], d)
			p.Countdown = countdown
			p.AllowForward = forward
			p.AllowBackward = backward
			if err := repo.Create(p); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added preset %d: %s (%s)\n", p.ID, p.Name, p.FullTime)
			return nil
		},
	}
	add.Flags().BoolVar(&countdown, "countdown", true, "show remaining time")
	add.Flags().BoolVar(&forward, "allow-forward", true, "allow dragging forward")
	add.Flags().BoolVar(&backward, "allow-backward", true, "allow dragging backward")

	list := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := openRepo(cmd, flags)
			if err != nil {
				return err
			}
			defer repo.Close()

			presets, err := repo.GetAll()
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no presets")
				return nil
			}
			for _, p := range presets {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\tcountdown=%t\n", p.ID, p.Name, p.FullTime, p.Countdown)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a preset and its logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid preset id %q", args[0])
			}
			repo, err := openRepo(cmd, flags)
			if err != nil {
				return err
			}
			defer repo.Close()

			if _, err := repo.GetByID(id); err != nil {
				return fmt.Errorf("preset %d not found", id)
			}
			if err := repo.Delete(id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted preset %d\n", id)
			return nil
		},
	}

	presetCmd.AddCommand(add, list, del)
	return presetCmd
}
