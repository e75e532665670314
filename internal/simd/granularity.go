package simd

import (
	"fmt"
	"strconv"
	"strings"

	"simdedit/internal/register"
)

// Granularity is the element type a row of fields interprets the buffer as.
type Granularity int

const (
	Byte Granularity = iota
	Word
	Dword
	Qword
	Float32
	Float64
)

const numGranularities = 6

// Granularities lists every row, top to bottom.
var Granularities = [numGranularities]Granularity{Byte, Word, Dword, Qword, Float32, Float64}

func (g Granularity) Size() int {
	switch g {
	case Byte:
		return 1
	case Word:
		return 2
	case Dword, Float32:
		return 4
	case Qword, Float64:
		return 8
	}
	return 0
}

func (g Granularity) IsFloat() bool {
	return g == Float32 || g == Float64
}

// Slots is the number of fields the row has at full capacity.
func (g Granularity) Slots() int {
	return register.MaxBytes / g.Size()
}

func (g Granularity) Label() string {
	switch g {
	case Byte:
		return "Byte"
	case Word:
		return "Word"
	case Dword:
		return "Doubleword"
	case Qword:
		return "Quadword"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "?"
}

func (g Granularity) String() string {
	switch g {
	case Byte:
		return "byte"
	case Word:
		return "word"
	case Dword:
		return "dword"
	case Qword:
		return "qword"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// Mode selects how integer fields are written.
type Mode int

const (
	Hex Mode = iota
	Signed
	Unsigned
)

var Modes = [...]Mode{Hex, Signed, Unsigned}

func (m Mode) String() string {
	switch m {
	case Hex:
		return "hex"
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) Label() string {
	switch m {
	case Hex:
		return "Hexadecimal"
	case Signed:
		return "Signed"
	case Unsigned:
		return "Unsigned"
	}
	return "?"
}

// Next cycles Hex -> Signed -> Unsigned -> Hex.
func (m Mode) Next() Mode {
	return Modes[(int(m)+1)%len(Modes)]
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hex", "hexadecimal":
		return Hex, nil
	case "signed":
		return Signed, nil
	case "unsigned":
		return Unsigned, nil
	}
	return Hex, fmt.Errorf("unknown mode %q", s)
}

// FieldID names one field: a row and the element index within the buffer.
// Slot 0 is the least significant element.
type FieldID struct {
	Gran Granularity
	Slot int
}

func (id FieldID) Offset() int {
	return id.Slot * id.Gran.Size()
}

func (id FieldID) String() string {
	return fmt.Sprintf("%s[%d]", id.Gran, id.Slot)
}

// ParseFieldID reads the form produced by FieldID.String, e.g. "dword[1]".
func ParseFieldID(s string) (FieldID, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return FieldID{}, fmt.Errorf("field %q: want name[index]", s)
	}
	name := strings.ToLower(s[:open])
	slot, err := strconv.Atoi(s[open+1 : len(s)-1])
	if err != nil {
		return FieldID{}, fmt.Errorf("field %q: %w", s, err)
	}
	for _, g := range Granularities {
		if g.String() == name {
			if slot < 0 || slot >= g.Slots() {
				return FieldID{}, fmt.Errorf("field %q: index out of range", s)
			}
			return FieldID{Gran: g, Slot: slot}, nil
		}
	}
	return FieldID{}, fmt.Errorf("field %q: unknown granularity", s)
}
