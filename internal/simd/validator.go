package simd

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
)

// Validator filters keystrokes before a field is edited. Accepts reports
// whether text is acceptable as input in progress, so "" and "-" pass even
// though they do not parse yet.
type Validator interface {
	Accepts(text string) bool
}

type hexValidator struct {
	re *regexp.Regexp
}

func (v hexValidator) Accepts(text string) bool {
	return v.re.MatchString(text)
}

type rangeValidator struct {
	signed bool
	bits   int
}

func (v rangeValidator) Accepts(text string) bool {
	if text == "" || (v.signed && text == "-") {
		return true
	}
	for i, r := range text {
		if r == '-' && i == 0 && v.signed {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	if v.signed {
		_, err := strconv.ParseInt(text, 10, v.bits)
		return err == nil
	}
	_, err := strconv.ParseUint(text, 10, v.bits)
	return err == nil
}

// floatValidator only bounds the text; malformed floats are rejected when
// the edit is parsed.
type floatValidator struct{}

const maxFloatText = 40

func (floatValidator) Accepts(text string) bool {
	if len(text) > maxFloatText {
		return false
	}
	for _, r := range text {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

var hexValidators = func() map[int]Validator {
	m := make(map[int]Validator)
	for _, size := range []int{1, 2, 4, 8} {
		m[size] = hexValidator{re: regexp.MustCompile(fmt.Sprintf("^[0-9a-fA-F]{0,%d}$", 2*size))}
	}
	return m
}()

// ValidatorFor returns the input filter for a row under a mode.
func ValidatorFor(g Granularity, mode Mode) Validator {
	if g.IsFloat() {
		return floatValidator{}
	}
	switch mode {
	case Signed:
		return rangeValidator{signed: true, bits: 8 * g.Size()}
	case Unsigned:
		return rangeValidator{bits: 8 * g.Size()}
	}
	return hexValidators[g.Size()]
}
