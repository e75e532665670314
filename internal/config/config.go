package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	FieldBackground       string `toml:"field_background"`
	FocusBackground       string `toml:"focus_background"`
	InvalidBackground     string `toml:"invalid_background"`
	LabelColor            string `toml:"label_color"`
	IndexColor            string `toml:"index_color"`
	IndexMarkerBackground string `toml:"index_marker_background"`
	LegendBackground      string `toml:"legend_background"`
	LegendHighlight       string `toml:"legend_highlight"`
	BorderColor           string `toml:"border_color"`
	ActiveMode            string `toml:"active_mode"`
	ModifiedColor         string `toml:"modified_color"`
	DisabledColor         string `toml:"disabled_color"`
}

type Editor struct {
	DefaultMode  string `toml:"default_mode"`
	RememberMode bool   `toml:"remember_mode"`
}

type Log struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	Level   string `toml:"level"`
}

type Config struct {
	Theme  Theme  `toml:"theme"`
	Editor Editor `toml:"editor"`
	Log    Log    `toml:"log"`

	// path is the file the config was loaded from, and where Save writes.
	path string
}

func DefaultConfig() *Config {
	return &Config{
		Theme: Theme{
			FieldBackground:       "#1C1C1C",
			FocusBackground:       "#0000FF",
			InvalidBackground:     "#AA0000",
			LabelColor:            "#888888",
			IndexColor:            "#AAAAAA",
			IndexMarkerBackground: "#000080",
			LegendBackground:      "#0000FF",
			LegendHighlight:       "#FF0000",
			BorderColor:           "#0000FF",
			ActiveMode:            "#FF00FF",
			ModifiedColor:         "#FF0000",
			DisabledColor:         "#666666",
		},
		Editor: Editor{
			DefaultMode: "hex",
		},
		Log: Log{
			Level: "info",
		},
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "simdedit.toml"
	}
	return filepath.Join(home, ".config", "simdedit", "simdedit.toml")
}

func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads path over the defaults. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Path returns the file Save writes to.
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

func (c *Config) Save() error {
	return c.SaveTo(c.Path())
}

func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

type Styles struct {
	Field           lipgloss.Style
	FieldFocused    lipgloss.Style
	FieldInvalid    lipgloss.Style
	Label           lipgloss.Style
	Index           lipgloss.Style
	IndexMarker     lipgloss.Style
	Legend          lipgloss.Style
	LegendHighlight lipgloss.Style
	Border          lipgloss.Style
	ActiveMode      lipgloss.Style
	InactiveMode    lipgloss.Style
	Modified        lipgloss.Style
	Disabled        lipgloss.Style
	Title           lipgloss.Style
	DecoderLabel    lipgloss.Style
	DecoderValue    lipgloss.Style
	HelpTitle       lipgloss.Style
	HelpKey         lipgloss.Style
	HelpDesc        lipgloss.Style
}

func NewStyles(theme *Theme) *Styles {
	return &Styles{
		Field: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.FieldBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		FieldFocused: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.FocusBackground)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		FieldInvalid: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.InvalidBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.LabelColor)),
		Index: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.IndexColor)),
		IndexMarker: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.IndexMarkerBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		Legend: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.LegendBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		LegendHighlight: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.LegendBackground)).
			Foreground(lipgloss.Color(theme.LegendHighlight)).
			Bold(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.BorderColor)).
			Padding(1, 2),
		ActiveMode: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ActiveMode)).
			Bold(true),
		InactiveMode: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")),
		Modified: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ModifiedColor)),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.DisabledColor)),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")),
		DecoderLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
		DecoderValue: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		HelpTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")),
		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.LegendHighlight)).
			Bold(true),
		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")),
	}
}
