package editor

import (
	"errors"
	"fmt"

	"simdedit/internal/config"
	"simdedit/internal/logger"
	"simdedit/internal/register"
	"simdedit/internal/simd"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type View int

const (
	ViewMain View = iota
	ViewHelp
	ViewConfirmCancel
)

// Model is the terminal dialog. It is the display surface of a
// simd.Editor: the engine pushes field text into it and it hands typed
// text back.
type Model struct {
	engine     *simd.Editor
	keys       KeyMap
	view       View
	focus      simd.FieldID
	texts      map[simd.FieldID]string
	visible    map[simd.FieldID]bool
	invalid    map[simd.FieldID]bool
	validators map[simd.Granularity]simd.Validator
	width      int
	height     int
	config     *config.Config
	styles     *config.Styles

	result   register.Register
	accepted bool

	copyText func(string) error

	// Error/status message
	statusMsg string
}

func NewModel(reg register.Register, cfg *config.Config) (*Model, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	mode, err := simd.ParseMode(cfg.Editor.DefaultMode)
	if err != nil {
		logger.Warn("bad default mode in config", "mode", cfg.Editor.DefaultMode, "error", err)
	}

	m := &Model{
		keys:       DefaultKeyMap(),
		view:       ViewMain,
		texts:      make(map[simd.FieldID]string),
		visible:    make(map[simd.FieldID]bool),
		invalid:    make(map[simd.FieldID]bool),
		validators: make(map[simd.Granularity]simd.Validator),
		config:     cfg,
		styles:     config.NewStyles(&cfg.Theme),
		copyText:   clipboard.WriteAll,
	}

	m.engine = simd.New(m, mode)
	if err := m.engine.Load(reg); err != nil {
		return nil, err
	}
	if order := m.engine.TabOrder(); len(order) > 0 {
		m.focus = order[0]
	}
	return m, nil
}

// SetFieldText implements simd.Surface.
func (m *Model) SetFieldText(id simd.FieldID, text string) {
	m.texts[id] = text
	delete(m.invalid, id)
}

// FieldText implements simd.Surface.
func (m *Model) FieldText(id simd.FieldID) string {
	return m.texts[id]
}

// SetValidator implements simd.Surface.
func (m *Model) SetValidator(g simd.Granularity, v simd.Validator) {
	m.validators[g] = v
}

// SetFieldVisible implements simd.Surface.
func (m *Model) SetFieldVisible(id simd.FieldID, visible bool) {
	m.visible[id] = visible
	if !visible {
		delete(m.texts, id)
		delete(m.invalid, id)
	}
}

// Result returns the edited register and whether the dialog was accepted.
func (m *Model) Result() (register.Register, bool) {
	return m.result, m.accepted
}

// Apply edits a field as if text had been typed into it in full.
func (m *Model) Apply(id simd.FieldID, text string) error {
	if err := m.engine.EditField(id, text); err != nil {
		return err
	}
	m.texts[id] = text
	return nil
}

func (m *Model) Focus() simd.FieldID {
	return m.focus
}

func (m *Model) Mode() simd.Mode {
	return m.engine.Mode()
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear status message on any key
	m.statusMsg = ""

	switch m.view {
	case ViewHelp:
		return m.handleHelpKey(msg)
	case ViewConfirmCancel:
		return m.handleConfirmCancelKey(msg)
	default:
		return m.handleMainKey(msg)
	}
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		return m.accept()
	case key.Matches(msg, m.keys.Cancel):
		if m.engine.Modified() {
			m.view = ViewConfirmCancel
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.view = ViewHelp

	case key.Matches(msg, m.keys.Next):
		m.moveTab(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveTab(-1)
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
	case key.Matches(msg, m.keys.Left):
		m.moveInRow(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveInRow(1)

	case key.Matches(msg, m.keys.Hex):
		m.engine.SetMode(simd.Hex)
	case key.Matches(msg, m.keys.Signed):
		m.engine.SetMode(simd.Signed)
	case key.Matches(msg, m.keys.Unsigned):
		m.engine.SetMode(simd.Unsigned)
	case key.Matches(msg, m.keys.CycleMode):
		m.engine.SetMode(m.engine.Mode().Next())

	case key.Matches(msg, m.keys.Undo):
		if !m.engine.Undo() {
			m.statusMsg = "Nothing to undo"
		}
	case key.Matches(msg, m.keys.Redo):
		if !m.engine.Redo() {
			m.statusMsg = "Nothing to redo"
		}

	case key.Matches(msg, m.keys.CopyField):
		m.copy(m.texts[m.focus], m.focus.String())
	case key.Matches(msg, m.keys.CopyRegister):
		m.copy(m.engine.Register().WithValue(m.engine.Bytes()).Hex(), "register")

	case key.Matches(msg, m.keys.Backspace):
		text := []rune(m.texts[m.focus])
		if len(text) > 0 {
			m.setFocusedText(string(text[:len(text)-1]))
		}
	case key.Matches(msg, m.keys.Clear):
		m.setFocusedText("")

	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.typeRunes(msg.Runes)
		}
	}

	return m, nil
}

// typeRunes appends input to the focused field if the row's validator
// accepts the result.
func (m *Model) typeRunes(runes []rune) {
	if len(runes) == 0 {
		return
	}
	candidate := m.texts[m.focus] + string(runes)
	if v := m.validators[m.focus.Gran]; v != nil && !v.Accepts(candidate) {
		return
	}
	m.setFocusedText(candidate)
}

func (m *Model) setFocusedText(text string) {
	if !m.visible[m.focus] {
		return
	}
	m.texts[m.focus] = text
	err := m.engine.FieldEdited(m.focus)
	switch {
	case err == nil:
		delete(m.invalid, m.focus)
	case errors.Is(err, simd.ErrInvalidText):
		m.invalid[m.focus] = true
	default:
		logger.Warn("field edit failed", "field", m.focus.String(), "error", err)
		m.statusMsg = fmt.Sprintf("Error: %v", err)
	}
}

func (m *Model) moveTab(delta int) {
	order := m.engine.TabOrder()
	if len(order) == 0 {
		return
	}
	idx := indexOf(order, m.focus)
	m.focus = order[(idx+delta+len(order))%len(order)]
}

func (m *Model) moveInRow(delta int) {
	row := m.engine.Fields(m.focus.Gran)
	idx := indexOf(row, m.focus) + delta
	if idx >= 0 && idx < len(row) {
		m.focus = row[idx]
	}
}

// moveRow goes to the nearest non-empty row above or below, landing on the
// field that covers the current column.
func (m *Model) moveRow(delta int) {
	col, _ := m.engine.Column(m.focus)
	for g := int(m.focus.Gran) + delta; g >= 0 && g < len(simd.Granularities); g += delta {
		row := m.engine.Fields(simd.Granularity(g))
		for _, id := range row {
			c, span := m.engine.Column(id)
			if col >= c && col < c+span {
				m.focus = id
				return
			}
		}
	}
}

func indexOf(ids []simd.FieldID, id simd.FieldID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}

func (m *Model) copy(text, what string) {
	if err := m.copyText(text); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s", what)
}

func (m *Model) accept() (tea.Model, tea.Cmd) {
	reg, err := m.engine.Commit()
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	m.result = reg
	m.accepted = true
	logger.Info("register accepted", "register", reg.Name(), "value", reg.Hex())

	if m.config.Editor.RememberMode {
		m.config.Editor.DefaultMode = m.engine.Mode().String()
		if err := m.config.Save(); err != nil {
			logger.Warn("saving config failed", "error", err)
		}
	}
	return m, tea.Quit
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Help) {
		m.view = ViewMain
	}
	return m, nil
}

func (m *Model) handleConfirmCancelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, tea.Quit
	case "n", "N", "esc":
		m.view = ViewMain
	}
	return m, nil
}
