package editor

import (
	"encoding/hex"
	"fmt"
	"strings"

	"simdedit/internal/simd"

	"github.com/holiman/uint256"
)

const (
	cellWidth  = 4 // characters per byte column
	labelWidth = 12
)

func (m *Model) View() string {
	var b strings.Builder

	// Legend
	b.WriteString(m.renderLegend())
	b.WriteString("\n")

	switch m.view {
	case ViewHelp:
		b.WriteString(m.renderHelp())
	case ViewConfirmCancel:
		b.WriteString(m.renderMainView())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog("Discard changes? (Y/N)"))
	default:
		b.WriteString(m.renderMainView())
	}

	// Status message
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.statusMsg)
	}

	return b.String()
}

func (m *Model) renderLegend() string {
	var items []string

	hl := func(label, text string) string {
		return m.styles.LegendHighlight.Render(label) + m.styles.Legend.Render(" "+text)
	}

	items = append(items, hl("Enter", "Accept"))
	items = append(items, hl("Esc", "Cancel"))
	items = append(items, hl("F1", "Help"))

	if m.view == ViewMain {
		items = append(items, hl("F2", "Hex"))
		items = append(items, hl("F3", "Signed"))
		items = append(items, hl("F4", "Unsigned"))
		if m.engine.CanUndo() {
			items = append(items, hl("^Z", "Undo"))
		} else {
			items = append(items, m.styles.Disabled.Render("^Z Undo"))
		}
		if m.engine.CanRedo() {
			items = append(items, hl("^R", "Redo"))
		} else {
			items = append(items, m.styles.Disabled.Render("^R Redo"))
		}
	}

	legend := strings.Join(items, m.styles.Legend.Render(" | "))
	if m.width > 0 {
		return m.styles.Legend.Width(m.width).Render(legend)
	}
	return m.styles.Legend.Render(legend)
}

func (m *Model) renderMainView() string {
	var b strings.Builder

	title := "Modify " + strings.ToUpper(m.engine.Register().Name())
	if m.engine.Modified() {
		title = m.styles.Modified.Render("*") + m.styles.Title.Render(title)
	} else {
		title = m.styles.Title.Render(title)
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderColumnHeader())
	b.WriteString("\n")

	for _, g := range simd.Granularities {
		row := m.engine.Fields(g)
		if len(row) == 0 {
			continue
		}
		b.WriteString(m.renderRow(g, row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderModes())
	b.WriteString("\n")
	b.WriteString(m.renderDecoder())

	return b.String()
}

// renderColumnHeader labels byte columns, most significant first, marking
// the bytes under the focused field.
func (m *Model) renderColumnHeader() string {
	width := m.engine.Width()
	focusCol, focusSpan := m.engine.Column(m.focus)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for col := 0; col < width; col++ {
		label := fmt.Sprintf("%*d", cellWidth, width-1-col)
		if col >= focusCol && col < focusCol+focusSpan {
			label = m.styles.IndexMarker.Render(label)
		} else {
			label = m.styles.Index.Render(label)
		}
		b.WriteString(label)
		if col < width-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m *Model) renderRow(g simd.Granularity, row []simd.FieldID) string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("%-*s", labelWidth, g.Label())))
	for i, id := range row {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(m.renderField(id))
	}
	return b.String()
}

func fieldWidth(span int) int {
	return span*cellWidth + span - 1
}

func (m *Model) renderField(id simd.FieldID) string {
	_, span := m.engine.Column(id)
	w := fieldWidth(span)

	text := m.texts[id]
	style := m.styles.Field
	switch {
	case id == m.focus:
		style = m.styles.FieldFocused
		text += "_"
	case m.invalid[id]:
		style = m.styles.FieldInvalid
	}
	if id == m.focus && m.invalid[id] {
		style = style.Underline(true)
	}

	// Keep the tail visible while typing into a narrow field.
	if r := []rune(text); len(r) > w {
		text = string(r[len(r)-w:])
	}
	return style.Render(fmt.Sprintf("%*s", w, text))
}

func (m *Model) renderModes() string {
	var items []string
	for _, mode := range simd.Modes {
		if mode == m.engine.Mode() {
			items = append(items, m.styles.ActiveMode.Render("(•) "+mode.Label()))
		} else {
			items = append(items, m.styles.InactiveMode.Render("( ) "+mode.Label()))
		}
	}
	return strings.Repeat(" ", labelWidth) + strings.Join(items, "  ")
}

// renderDecoder shows the whole register as one integer in the current mode.
func (m *Model) renderDecoder() string {
	bits := m.engine.Register().BitSize()
	label := fmt.Sprintf("%-*s", labelWidth, fmt.Sprintf("u%d", bits))
	if m.engine.Mode() == simd.Signed {
		label = fmt.Sprintf("%-*s", labelWidth, fmt.Sprintf("i%d", bits))
	}
	return m.styles.DecoderLabel.Render(label) +
		m.styles.DecoderValue.Render(formatWhole(m.engine.Bytes(), m.engine.Mode()))
}

// formatWhole renders little-endian bytes (at most 32) as a single integer.
func formatWhole(le []byte, mode simd.Mode) string {
	be := make([]byte, len(le))
	for i, v := range le {
		be[len(le)-1-i] = v
	}

	switch mode {
	case simd.Hex:
		return "0x" + strings.ToUpper(hex.EncodeToString(be))
	case simd.Signed:
		v := new(uint256.Int).SetBytes(be)
		bits := uint(8 * len(le))
		if bits == 0 {
			return "0"
		}
		half := new(uint256.Int).Lsh(uint256.NewInt(1), bits-1)
		if v.Cmp(half) >= 0 {
			// 1<<256 wraps to zero, which is what the subtraction needs.
			mod := new(uint256.Int).Lsh(uint256.NewInt(1), bits)
			return "-" + new(uint256.Int).Sub(mod, v).Dec()
		}
		return v.Dec()
	}
	return new(uint256.Int).SetBytes(be).Dec()
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.HelpTitle.Render("HELP - SIMD Register Editor"))
	b.WriteString("\n\n")

	for _, section := range m.keys.helpSections() {
		b.WriteString(m.styles.HelpTitle.Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(m.styles.HelpKey.Render(fmt.Sprintf("%-12s", h.Key)))
			b.WriteString(m.styles.HelpDesc.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Floats accept inf, nan and nan(0xPAYLOAD).\n")
	b.WriteString("Press ESC or F1 to close this help screen.\n")
	return b.String()
}

func (m *Model) renderConfirmDialog(message string) string {
	return m.styles.Border.Render(message)
}
