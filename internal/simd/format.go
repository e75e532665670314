package simd

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidText = errors.New("invalid field text")

// nanPattern matches NaNs written with an explicit payload, e.g. -nan(0x1).
var nanPattern = regexp.MustCompile(`(?i)^([+-]?)nan\(0x([0-9a-f]+)\)$`)

// Format renders the low g.Size() bytes of bits, the field's value read as
// a little-endian integer.
func Format(g Granularity, mode Mode, bits uint64) string {
	switch g {
	case Float32:
		return FormatFloat32(uint32(bits))
	case Float64:
		return FormatFloat64(bits)
	}
	return FormatInteger(bits, g.Size(), mode)
}

// Parse converts field text into the bit pattern Format would render it from.
func Parse(g Granularity, mode Mode, text string) (uint64, error) {
	switch g {
	case Float32:
		bits, err := ParseFloat32(text)
		return uint64(bits), err
	case Float64:
		return ParseFloat64(text)
	}
	return ParseInteger(text, g.Size(), mode)
}

func mask(size int) uint64 {
	if size >= 8 {
		return math.MaxUint64
	}
	return 1<<(8*size) - 1
}

// FormatInteger writes the low size bytes of v.
func FormatInteger(v uint64, size int, mode Mode) string {
	v &= mask(size)
	switch mode {
	case Signed:
		shift := 64 - 8*size
		return strconv.FormatInt(int64(v<<shift)>>shift, 10)
	case Unsigned:
		return strconv.FormatUint(v, 10)
	}
	return fmt.Sprintf("%0*X", 2*size, v)
}

// ParseInteger reads text as a size-byte integer and returns its bit pattern.
func ParseInteger(text string, size int, mode Mode) (uint64, error) {
	bits := 8 * size
	switch mode {
	case Signed:
		v, err := strconv.ParseInt(text, 10, bits)
		if err != nil {
			return 0, fmt.Errorf("%q as int%d: %w", text, bits, ErrInvalidText)
		}
		return uint64(v) & mask(size), nil
	case Unsigned:
		v, err := strconv.ParseUint(text, 10, bits)
		if err != nil {
			return 0, fmt.Errorf("%q as uint%d: %w", text, bits, ErrInvalidText)
		}
		return v, nil
	}
	if text == "" || len(text) > 2*size {
		return 0, fmt.Errorf("%q as %d hex digits: %w", text, 2*size, ErrInvalidText)
	}
	v, err := strconv.ParseUint(text, 16, bits)
	if err != nil {
		return 0, fmt.Errorf("%q as %d hex digits: %w", text, 2*size, ErrInvalidText)
	}
	return v, nil
}

// FormatFloat32 writes the shortest text that parses back to bits. NaNs
// carry their sign and payload so they survive a round trip too.
func FormatFloat32(bits uint32) string {
	f := math.Float32frombits(bits)
	if math.IsNaN(float64(f)) {
		return formatNaN(bits>>31 != 0, uint64(bits&(1<<23-1)))
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func FormatFloat64(bits uint64) string {
	f := math.Float64frombits(bits)
	if math.IsNaN(f) {
		return formatNaN(bits>>63 != 0, bits&(1<<52-1))
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatNaN(negative bool, payload uint64) string {
	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%snan(0x%x)", sign, payload)
}

func ParseFloat32(text string) (uint32, error) {
	if neg, payload, ok := parseNaN(text, 23); ok {
		bits := uint32(0xFF)<<23 | uint32(payload)
		if neg {
			bits |= 1 << 31
		}
		return bits, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err != nil {
		return 0, fmt.Errorf("%q as float32: %w", text, ErrInvalidText)
	}
	return math.Float32bits(float32(f)), nil
}

func ParseFloat64(text string) (uint64, error) {
	if neg, payload, ok := parseNaN(text, 52); ok {
		bits := uint64(0x7FF)<<52 | payload
		if neg {
			bits |= 1 << 63
		}
		return bits, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%q as float64: %w", text, ErrInvalidText)
	}
	return math.Float64bits(f), nil
}

// parseNaN accepts [-]nan(0xPAYLOAD) with a non-zero payload that fits in
// a mantissa of mantBits.
func parseNaN(text string, mantBits int) (negative bool, payload uint64, ok bool) {
	m := nanPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return false, 0, false
	}
	payload, err := strconv.ParseUint(m[2], 16, mantBits)
	if err != nil || payload == 0 {
		return false, 0, false
	}
	return m[1] == "-", payload, true
}
