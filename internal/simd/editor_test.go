package simd

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simdedit/internal/register"
)

type fakeSurface struct {
	texts      map[FieldID]string
	visible    map[FieldID]bool
	validators map[Granularity]Validator
	writes     map[FieldID]int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		texts:      make(map[FieldID]string),
		visible:    make(map[FieldID]bool),
		validators: make(map[Granularity]Validator),
		writes:     make(map[FieldID]int),
	}
}

func (s *fakeSurface) SetFieldText(id FieldID, text string) {
	s.texts[id] = text
	s.writes[id]++
}

func (s *fakeSurface) FieldText(id FieldID) string {
	return s.texts[id]
}

func (s *fakeSurface) SetValidator(g Granularity, v Validator) {
	s.validators[g] = v
}

func (s *fakeSurface) SetFieldVisible(id FieldID, visible bool) {
	s.visible[id] = visible
}

func mustRegister(t *testing.T, name string, value []byte) register.Register {
	t.Helper()
	r, err := register.New(name, value)
	require.NoError(t, err)
	return r
}

// assertConsistent checks every visible field against the buffer, skipping
// the field that may still hold typed text.
func assertConsistent(t *testing.T, e *Editor, skip *FieldID) {
	t.Helper()
	for _, id := range e.TabOrder() {
		if skip != nil && *skip == id {
			continue
		}
		got, err := Parse(id.Gran, e.Mode(), e.Text(id))
		require.NoError(t, err, "field %s text %q", id, e.Text(id))
		want, ok := e.Bits(id)
		require.True(t, ok, "field %s", id)
		require.Equal(t, want, got, "field %s", id)
	}
}

func TestEditDwordPropagates(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "xmm0", make([]byte, 16))))

	id := FieldID{Gran: Dword, Slot: 0}
	require.NoError(t, e.EditField(id, "DEADBEEF"))

	out, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, out.Bytes()[:4])
	assert.Equal(t, make([]byte, 12), out.Bytes()[4:])

	assert.Equal(t, "BEEF", s.texts[FieldID{Word, 0}])
	assert.Equal(t, "DEAD", s.texts[FieldID{Word, 1}])
	assert.Equal(t, "EF", s.texts[FieldID{Byte, 0}])
	assert.Equal(t, "DE", s.texts[FieldID{Byte, 3}])
	assert.Equal(t, "00000000DEADBEEF", s.texts[FieldID{Qword, 0}])
	assert.Equal(t, "0000000000000000", s.texts[FieldID{Qword, 1}])
	assertConsistent(t, e, &id)
}

func TestEditedFieldKeepsTypedText(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "xmm0", nil)))

	id := FieldID{Gran: Word, Slot: 2}
	before := s.writes[id]
	require.NoError(t, e.EditField(id, "1"))

	assert.Equal(t, "1", e.Text(id))
	assert.Equal(t, before, s.writes[id], "edited field must not be rewritten")
	assert.Equal(t, "01", s.texts[FieldID{Byte, 4}])
	assert.Equal(t, "00000001", s.texts[FieldID{Dword, 1}])
}

func TestSignedUnsignedSwitch(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Signed)
	require.NoError(t, e.Load(mustRegister(t, "xmm3", []byte{0xFF})))

	b0 := FieldID{Gran: Byte, Slot: 0}
	assert.Equal(t, "-1", s.texts[b0])

	e.SetMode(Unsigned)
	assert.Equal(t, "255", s.texts[b0])
	assert.Equal(t, []byte{0xFF}, e.Value(b0))
	assertConsistent(t, e, nil)
}

func TestSetModeIsPure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	value := make([]byte, 32)
	rng.Read(value)

	e := New(nil, Hex)
	require.NoError(t, e.Load(mustRegister(t, "ymm5", value)))
	before, err := e.Commit()
	require.NoError(t, err)

	for _, mode := range []Mode{Signed, Unsigned, Hex, Unsigned} {
		e.SetMode(mode)
		assertConsistent(t, e, nil)
	}

	after, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, before.Bytes(), after.Bytes())
	assert.False(t, e.Modified())
}

func TestSetModeInstallsValidators(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	assert.True(t, s.validators[Word].Accepts("BEEF"))

	e.SetMode(Signed)
	assert.False(t, s.validators[Word].Accepts("BEEF"))
	assert.True(t, s.validators[Word].Accepts("-32768"))
	assert.NotNil(t, s.validators[Float64])
}

func TestSetModeSameModeIsNoop(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "xmm0", nil)))

	id := FieldID{Gran: Byte, Slot: 0}
	require.NoError(t, e.EditField(id, "a"))
	e.SetMode(Hex)
	assert.Equal(t, "a", e.Text(id), "same mode must not reformat")

	e.SetMode(Unsigned)
	assert.Equal(t, "10", e.Text(id))
}

func TestMMXWidthIsolation(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "mm1", nil)))

	assert.Equal(t, 8, e.Width())
	assert.Len(t, e.Fields(Byte), 8)
	assert.Len(t, e.Fields(Word), 4)
	assert.Len(t, e.Fields(Dword), 2)
	assert.Len(t, e.Fields(Qword), 1)
	assert.Empty(t, e.Fields(Float32))
	assert.Empty(t, e.Fields(Float64))
	assert.False(t, s.visible[FieldID{Float32, 0}])
	assert.False(t, s.visible[FieldID{Byte, 8}])
	assert.True(t, s.visible[FieldID{Byte, 7}])

	require.NoError(t, e.EditField(FieldID{Qword, 0}, "FFFFFFFFFFFFFFFF"))
	assert.ErrorIs(t, e.EditField(FieldID{Qword, 1}, "1"), ErrFieldUnavailable)
	assert.ErrorIs(t, e.EditField(FieldID{Byte, 8}, "1"), ErrFieldUnavailable)
	assert.ErrorIs(t, e.EditField(FieldID{Float64, 0}, "1"), ErrFieldUnavailable)

	out, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, 8, out.Width())
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 8), out.Bytes())
}

func TestYMMExposesAllFields(t *testing.T) {
	e := New(nil, Hex)
	require.NoError(t, e.Load(mustRegister(t, "ymm0", nil)))

	assert.Len(t, e.Fields(Byte), 32)
	assert.Len(t, e.Fields(Float32), 8)
	assert.Len(t, e.Fields(Float64), 4)
	assert.Len(t, e.TabOrder(), 32+16+8+4+8+4)

	first := e.Fields(Byte)[0]
	assert.Equal(t, FieldID{Byte, 31}, first)
	col, span := e.Column(first)
	assert.Equal(t, 0, col)
	assert.Equal(t, 1, span)

	col, span = e.Column(FieldID{Qword, 0})
	assert.Equal(t, 24, col)
	assert.Equal(t, 8, span)
}

func TestInvalidTextChangesNothing(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "xmm0", []byte{1, 2, 3, 4})))

	w0 := s.texts[FieldID{Word, 0}]
	err := e.EditField(FieldID{Float32, 0}, "1.2.3")
	require.ErrorIs(t, err, ErrInvalidText)
	assert.Equal(t, "1.2.3", e.Text(FieldID{Float32, 0}))
	assert.Equal(t, w0, s.texts[FieldID{Word, 0}])
	assert.Equal(t, []byte{1, 2, 3, 4}, e.Value(FieldID{Dword, 0}))
	assert.False(t, e.Modified())

	require.ErrorIs(t, e.EditField(FieldID{Byte, 0}, ""), ErrInvalidText)
	assert.Equal(t, []byte{1}, e.Value(FieldID{Byte, 0}))
}

func TestFloatEdit(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "xmm2", nil)))

	id := FieldID{Gran: Float32, Slot: 1}
	require.NoError(t, e.EditField(id, "1"))
	assert.Equal(t, "3F800000", s.texts[FieldID{Dword, 1}])
	assert.Equal(t, "3F80000000000000", s.texts[FieldID{Qword, 0}])
	assert.Equal(t, "0.0078125", s.texts[FieldID{Float64, 0}])
	assertConsistent(t, e, &id)
}

func TestRandomEditsStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "ymm9", nil)))

	for i := 0; i < 300; i++ {
		if i%37 == 0 {
			e.SetMode(Modes[rng.Intn(len(Modes))])
		}
		fields := e.TabOrder()
		id := fields[rng.Intn(len(fields))]
		bits := rng.Uint64() & mask(id.Gran.Size())
		text := Format(id.Gran, e.Mode(), bits)

		require.NoError(t, e.EditField(id, text))
		got, ok := e.Bits(id)
		require.True(t, ok)
		require.Equal(t, bits, got)
		assert.Len(t, e.Value(id), id.Gran.Size())
		assertConsistent(t, e, &id)
		for other, txt := range s.texts {
			if other != id && e.Visible(other) {
				require.Equal(t, e.Text(other), txt)
			}
		}
	}
}

func TestUndoRedo(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Hex)
	require.NoError(t, e.Load(mustRegister(t, "xmm0", nil)))

	id := FieldID{Gran: Word, Slot: 0}
	require.NoError(t, e.EditField(id, "12"))
	require.NoError(t, e.EditField(id, "123"))
	assert.True(t, e.CanUndo())

	require.True(t, e.Undo())
	assert.Equal(t, []byte{0x12, 0x00}, e.Value(id))
	assert.Equal(t, "0012", s.texts[id], "undo reformats the edited field too")

	require.True(t, e.Redo())
	assert.Equal(t, []byte{0x23, 0x01}, e.Value(id))
	assertConsistent(t, e, nil)

	require.True(t, e.Undo())
	require.True(t, e.Undo())
	assert.False(t, e.Undo())
	assert.False(t, e.Modified())
}

func TestUnsupportedRegister(t *testing.T) {
	e := New(nil, Hex)
	err := e.Load(mustRegister(t, "st0", make([]byte, 10)))
	require.ErrorIs(t, err, ErrUnsupportedRegister)
	assert.False(t, e.Loaded())

	_, err = e.Commit()
	require.ErrorIs(t, err, ErrNoRegister)

	require.NoError(t, e.Load(mustRegister(t, "xmm0", []byte{7})))
	require.ErrorIs(t, e.Load(mustRegister(t, "rax", nil)), ErrUnsupportedRegister)
	out, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, "xmm0", out.Name(), "failed load keeps the previous register")
	assert.Equal(t, byte(7), out.Bytes()[0])
}

func TestReloadResetsJournal(t *testing.T) {
	e := New(nil, Hex)
	require.NoError(t, e.Load(mustRegister(t, "ymm0", nil)))
	require.NoError(t, e.EditField(FieldID{Byte, 31}, "FF"))

	require.NoError(t, e.Load(mustRegister(t, "mm0", nil)))
	assert.False(t, e.CanUndo())
	assert.Equal(t, "", e.Text(FieldID{Byte, 31}))
	assert.Nil(t, e.Value(FieldID{Byte, 31}))
}

func TestFieldEditedReadsSurface(t *testing.T) {
	s := newFakeSurface()
	e := New(s, Unsigned)
	require.NoError(t, e.Load(mustRegister(t, "xmm0", nil)))

	id := FieldID{Gran: Byte, Slot: 1}
	s.texts[id] = "200"
	require.NoError(t, e.FieldEdited(id))
	assert.Equal(t, "51200", s.texts[FieldID{Word, 0}])
}

func TestParseFieldID(t *testing.T) {
	id, err := ParseFieldID("dword[3]")
	require.NoError(t, err)
	assert.Equal(t, FieldID{Gran: Dword, Slot: 3}, id)
	assert.Equal(t, "dword[3]", id.String())

	_, err = ParseFieldID("qword[4]")
	assert.Error(t, err)
	_, err = ParseFieldID("nibble[0]")
	assert.Error(t, err)
	_, err = ParseFieldID("byte0")
	assert.Error(t, err)
}
