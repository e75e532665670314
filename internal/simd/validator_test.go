package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexValidator(t *testing.T) {
	v := ValidatorFor(Word, Hex)
	assert.True(t, v.Accepts(""))
	assert.True(t, v.Accepts("bE"))
	assert.True(t, v.Accepts("BEEF"))
	assert.False(t, v.Accepts("BEEF0"))
	assert.False(t, v.Accepts("-1"))
	assert.False(t, v.Accepts("xy"))
}

func TestSignedValidator(t *testing.T) {
	v := ValidatorFor(Byte, Signed)
	assert.True(t, v.Accepts(""))
	assert.True(t, v.Accepts("-"))
	assert.True(t, v.Accepts("-128"))
	assert.True(t, v.Accepts("127"))
	assert.False(t, v.Accepts("128"))
	assert.False(t, v.Accepts("1-"))
	assert.False(t, v.Accepts("ff"))
}

func TestUnsignedValidator(t *testing.T) {
	v := ValidatorFor(Qword, Unsigned)
	assert.True(t, v.Accepts(""))
	assert.True(t, v.Accepts("18446744073709551615"))
	assert.False(t, v.Accepts("18446744073709551616"))
	assert.False(t, v.Accepts("-"))
	assert.False(t, v.Accepts("+1"))
}

func TestFloatValidator(t *testing.T) {
	v := ValidatorFor(Float32, Signed)
	assert.True(t, v.Accepts("-1.5e10"))
	assert.True(t, v.Accepts("nan(0x1)"))
	assert.False(t, v.Accepts("1 2"))
	assert.False(t, v.Accepts("é"))
}
