package register

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxBytes is the widest register the editor handles (YMM).
const MaxBytes = 32

type Kind int

const (
	KindUnknown Kind = iota
	KindMMX
	KindXMM
	KindYMM
)

var (
	mmxName = regexp.MustCompile(`^mm[0-7]$`)
	xmmName = regexp.MustCompile(`^xmm[0-9]+$`)
	ymmName = regexp.MustCompile(`^ymm[0-9]+$`)
)

var ErrValueTooWide = errors.New("value wider than register")

// Classify maps a register name to its width class.
func Classify(name string) Kind {
	n := strings.ToLower(name)
	switch {
	case mmxName.MatchString(n):
		return KindMMX
	case xmmName.MatchString(n):
		return KindXMM
	case ymmName.MatchString(n):
		return KindYMM
	}
	return KindUnknown
}

// Width returns the size of the register class in bytes, 0 for unknown.
func (k Kind) Width() int {
	switch k {
	case KindMMX:
		return 8
	case KindXMM:
		return 16
	case KindYMM:
		return 32
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindMMX:
		return "MMX"
	case KindXMM:
		return "XMM"
	case KindYMM:
		return "YMM"
	}
	return "unknown"
}

// Register is a named SIMD register value. Bytes are kept in memory order,
// least significant byte first.
type Register struct {
	name  string
	kind  Kind
	value []byte
}

// New builds a register from its name and raw value. The value is zero
// extended to the register width; unknown kinds keep the value as given.
func New(name string, value []byte) (Register, error) {
	kind := Classify(name)
	width := kind.Width()
	if width == 0 {
		width = len(value)
	}
	if len(value) > width {
		return Register{}, fmt.Errorf("%s: %d bytes: %w", name, len(value), ErrValueTooWide)
	}
	r := Register{name: name, kind: kind, value: make([]byte, width)}
	copy(r.value, value)
	return r, nil
}

// Parse builds a register from a hex string in memory order.
func Parse(name, hexValue string) (Register, error) {
	s := strings.ReplaceAll(hexValue, " ", "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return Register{}, fmt.Errorf("parse %s value: %w", name, err)
	}
	return New(name, data)
}

func (r Register) Name() string {
	return r.name
}

func (r Register) Kind() Kind {
	return r.kind
}

func (r Register) Width() int {
	return len(r.value)
}

func (r Register) BitSize() int {
	return 8 * len(r.value)
}

// Bytes returns a copy of the value.
func (r Register) Bytes() []byte {
	out := make([]byte, len(r.value))
	copy(out, r.value)
	return out
}

// WithValue returns a register of the same name and kind holding data,
// truncated or zero extended to the register width.
func (r Register) WithValue(data []byte) Register {
	out := Register{name: r.name, kind: r.kind, value: make([]byte, len(r.value))}
	copy(out.value, data)
	return out
}

// Hex renders the value in memory order, the same form Parse accepts.
func (r Register) Hex() string {
	return hex.EncodeToString(r.value)
}

func (r Register) String() string {
	return fmt.Sprintf("%s=%s", r.name, r.Hex())
}
