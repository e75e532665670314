package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"simdedit/internal/config"
	"simdedit/internal/editor"
	"simdedit/internal/logger"
	"simdedit/internal/register"
	"simdedit/internal/simd"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	modeFlag   string
	setFlags   []string
	batch      bool
	debugMode  bool
	configPath string
)

var errCancelled = errors.New("edit cancelled")

var rootCmd = &cobra.Command{
	Use:   "simdedit <register> [hex-bytes]",
	Short: "Edit the raw value of an MMX, XMM or YMM register",
	Long: `simdedit shows a SIMD register as bytes, words, doublewords, quadwords,
float32 and float64 at once. Editing any field updates all the others.

The value is given and printed in memory order (least significant byte
first), e.g. "simdedit xmm0 efbeadde". On accept the edited register is
printed as name=hex-bytes.`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Integer format: hex, signed or unsigned")
	rootCmd.Flags().StringArrayVarP(&setFlags, "set", "s", nil, "Edit a field before starting, e.g. dword[0]=DEADBEEF (repeatable)")
	rootCmd.Flags().BoolVarP(&batch, "batch", "b", false, "Apply --set edits and print the result without the editor")
	rootCmd.Flags().BoolVarP(&debugMode, "debug", "d", false, "Write debug logs to ~/.simdedit/logs")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default ~/.config/simdedit/simdedit.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCancelled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", err)
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if debugMode {
		level = slog.LevelDebug
	}
	if err := logger.Init(logger.Options{
		Enabled: debugMode || cfg.Log.Enabled,
		LogDir:  cfg.Log.Dir,
		Level:   level,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}
	defer logger.Close()

	value := ""
	if len(args) > 1 {
		value = args[1]
	}
	reg, err := register.Parse(args[0], value)
	if err != nil {
		return err
	}

	if modeFlag != "" {
		if _, err := simd.ParseMode(modeFlag); err != nil {
			return err
		}
		cfg.Editor.DefaultMode = modeFlag
	}

	edits, err := parseEdits(setFlags)
	if err != nil {
		return err
	}

	if batch {
		out, err := runBatch(reg, cfg, edits)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	return runInteractive(cmd, reg, cfg, edits)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

type edit struct {
	id   simd.FieldID
	text string
}

// parseEdits reads --set values of the form field=text.
func parseEdits(values []string) ([]edit, error) {
	edits := make([]edit, 0, len(values))
	for _, s := range values {
		name, text, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want field=value", s)
		}
		id, err := simd.ParseFieldID(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit{id: id, text: strings.TrimSpace(text)})
	}
	return edits, nil
}

func runBatch(reg register.Register, cfg *config.Config, edits []edit) (register.Register, error) {
	mode, err := simd.ParseMode(cfg.Editor.DefaultMode)
	if err != nil {
		logger.Warn("bad default mode in config", "mode", cfg.Editor.DefaultMode, "error", err)
	}
	e := simd.New(nil, mode)
	if err := e.Load(reg); err != nil {
		return register.Register{}, err
	}
	for _, ed := range edits {
		if err := e.EditField(ed.id, ed.text); err != nil {
			return register.Register{}, err
		}
	}
	return e.Commit()
}

func runInteractive(cmd *cobra.Command, reg register.Register, cfg *config.Config, edits []edit) error {
	model, err := editor.NewModel(reg, cfg)
	if err != nil {
		return err
	}
	for _, ed := range edits {
		if err := model.Apply(ed.id, ed.text); err != nil {
			return err
		}
	}

	logger.Info("starting simdedit", "register", reg.Name(), "debug", debugMode)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("running editor: %w", err)
	}

	m, ok := finalModel.(*editor.Model)
	if !ok {
		return errCancelled
	}
	out, accepted := m.Result()
	if !accepted {
		logger.Info("edit cancelled", "register", reg.Name())
		return errCancelled
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
