package simd

import (
	"errors"
	"fmt"

	"simdedit/internal/buffer"
	"simdedit/internal/logger"
	"simdedit/internal/register"
)

var (
	ErrUnsupportedRegister = errors.New("register type unsupported")
	ErrNoRegister          = errors.New("no register loaded")
	ErrFieldUnavailable    = errors.New("field not available for this register")
)

// Surface is whatever presents the fields. The editor pushes text,
// validators and visibility to it and reads back what the user typed.
type Surface interface {
	SetFieldText(id FieldID, text string)
	FieldText(id FieldID) string
	SetValidator(g Granularity, v Validator)
	SetFieldVisible(id FieldID, visible bool)
}

type nopSurface struct{}

func (nopSurface) SetFieldText(FieldID, string)        {}
func (nopSurface) FieldText(FieldID) string            { return "" }
func (nopSurface) SetValidator(Granularity, Validator) {}
func (nopSurface) SetFieldVisible(FieldID, bool)       {}

// Editor keeps six views of one register buffer in step. The buffer is the
// only state that matters; field texts are projections of it, except for
// the field the user last typed into, which keeps the typed text.
type Editor struct {
	surface   Surface
	buf       *buffer.Buffer
	reg       register.Register
	loaded    bool
	mode      Mode
	formatted bool
	texts     [numGranularities][register.MaxBytes]string
	visible   [numGranularities][register.MaxBytes]bool
}

// New creates an editor in the given mode. A nil surface runs headless.
func New(surface Surface, mode Mode) *Editor {
	if surface == nil {
		surface = nopSurface{}
	}
	e := &Editor{
		surface: surface,
		buf:     buffer.New(),
		mode:    mode,
	}
	e.SetMode(mode)
	return e
}

// Load copies reg into the buffer and redisplays every field. Unsupported
// registers leave the editor as it was.
func (e *Editor) Load(reg register.Register) error {
	width := reg.Kind().Width()
	if width == 0 {
		logger.Error("register type unsupported", "register", reg.Name())
		return fmt.Errorf("load %s: %w", reg.Name(), ErrUnsupportedRegister)
	}

	e.reg = reg
	e.loaded = true
	e.buf.Reset(width, reg.Bytes())

	for _, g := range Granularities {
		for slot := 0; slot < g.Slots(); slot++ {
			id := FieldID{Gran: g, Slot: slot}
			vis := e.available(id)
			e.visible[g][slot] = vis
			if !vis {
				e.texts[g][slot] = ""
			}
			e.surface.SetFieldVisible(id, vis)
		}
	}

	e.refreshExcept(nil)
	logger.Debug("register loaded", "register", reg.Name(), "kind", reg.Kind().String(), "width", width)
	return nil
}

func (e *Editor) available(id FieldID) bool {
	if !e.loaded || id.Gran < Byte || id.Gran > Float64 {
		return false
	}
	if id.Slot < 0 || id.Slot >= id.Gran.Slots() {
		return false
	}
	// MMX registers never hold float data.
	if id.Gran.IsFloat() && e.reg.Kind() == register.KindMMX {
		return false
	}
	return id.Offset()+id.Gran.Size() <= e.buf.Width()
}

// EditField applies text typed into a field. On success the buffer takes
// the new value and every other field is redisplayed; the edited field
// keeps text as typed. Text that does not parse changes nothing.
func (e *Editor) EditField(id FieldID, text string) error {
	if !e.available(id) {
		return fmt.Errorf("edit %s: %w", id, ErrFieldUnavailable)
	}
	e.texts[id.Gran][id.Slot] = text

	bits, err := Parse(id.Gran, e.mode, text)
	if err != nil {
		return fmt.Errorf("edit %s: %w", id, err)
	}

	if old, _ := e.buf.Uint(id.Offset(), id.Gran.Size()); old != bits {
		e.buf.PutUint(id.Offset(), id.Gran.Size(), bits)
		logger.Debug("field edited", "field", id.String(), "text", text)
	}
	e.refreshExcept(&id)
	return nil
}

// FieldEdited applies whatever the surface currently shows for id.
func (e *Editor) FieldEdited(id FieldID) error {
	return e.EditField(id, e.surface.FieldText(id))
}

// SetMode switches integer formatting and reformats integer fields. The
// buffer is not touched.
func (e *Editor) SetMode(mode Mode) {
	if mode == e.mode && e.formatted {
		return
	}
	e.mode = mode
	e.formatted = true
	for _, g := range Granularities {
		e.surface.SetValidator(g, ValidatorFor(g, mode))
	}
	e.refreshExcept(nil)
}

func (e *Editor) Mode() Mode {
	return e.mode
}

// refreshExcept reformats every visible field from the buffer, skipping the
// one just edited.
func (e *Editor) refreshExcept(skip *FieldID) {
	if !e.loaded {
		return
	}
	for _, g := range Granularities {
		for slot := 0; slot < g.Slots(); slot++ {
			id := FieldID{Gran: g, Slot: slot}
			if !e.visible[g][slot] || (skip != nil && *skip == id) {
				continue
			}
			bits, _ := e.buf.Uint(id.Offset(), g.Size())
			text := Format(g, e.mode, bits)
			e.texts[g][slot] = text
			e.surface.SetFieldText(id, text)
		}
	}
}

// Commit returns the loaded register holding the edited bytes.
func (e *Editor) Commit() (register.Register, error) {
	if !e.loaded {
		return register.Register{}, ErrNoRegister
	}
	return e.reg.WithValue(e.buf.Bytes()), nil
}

func (e *Editor) Undo() bool {
	if !e.buf.Undo() {
		return false
	}
	e.refreshExcept(nil)
	return true
}

func (e *Editor) Redo() bool {
	if !e.buf.Redo() {
		return false
	}
	e.refreshExcept(nil)
	return true
}

func (e *Editor) CanUndo() bool { return e.buf.CanUndo() }
func (e *Editor) CanRedo() bool { return e.buf.CanRedo() }

// Modified reports whether the buffer differs from what was loaded by way
// of an edit that has not been undone.
func (e *Editor) Modified() bool {
	return e.buf.IsModified()
}

func (e *Editor) Loaded() bool {
	return e.loaded
}

func (e *Editor) Register() register.Register {
	return e.reg
}

// Width is the size of the loaded register in bytes.
func (e *Editor) Width() int {
	return e.buf.Width()
}

// Bytes returns a copy of the register bytes being edited.
func (e *Editor) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *Editor) Text(id FieldID) string {
	if id.Gran < Byte || id.Gran > Float64 || id.Slot < 0 || id.Slot >= id.Gran.Slots() {
		return ""
	}
	return e.texts[id.Gran][id.Slot]
}

func (e *Editor) Visible(id FieldID) bool {
	return e.available(id)
}

// Value returns the buffer bytes behind a field, nil if unavailable.
func (e *Editor) Value(id FieldID) []byte {
	if !e.available(id) {
		return nil
	}
	return e.buf.GetBytes(id.Offset(), id.Gran.Size())
}

// Bits returns a field's value as a little-endian integer.
func (e *Editor) Bits(id FieldID) (uint64, bool) {
	if !e.available(id) {
		return 0, false
	}
	return e.buf.Uint(id.Offset(), id.Gran.Size())
}

// Fields lists the visible fields of a row, most significant first.
func (e *Editor) Fields(g Granularity) []FieldID {
	var ids []FieldID
	for slot := g.Slots() - 1; slot >= 0; slot-- {
		id := FieldID{Gran: g, Slot: slot}
		if e.available(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// TabOrder lists every visible field row by row, each row most significant
// first.
func (e *Editor) TabOrder() []FieldID {
	var ids []FieldID
	for _, g := range Granularities {
		ids = append(ids, e.Fields(g)...)
	}
	return ids
}

// Column places a field on a grid whose column 0 is the most significant
// byte of the loaded register. Span is the field size in bytes.
func (e *Editor) Column(id FieldID) (col, span int) {
	size := id.Gran.Size()
	return e.buf.Width() - (id.Slot+1)*size, size
}
