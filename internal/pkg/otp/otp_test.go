package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode_SixDigitsInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestDigest_StableAndNotPlaintext(t *testing.T) {
	d1 := Digest("123456")
	d2 := Digest("123456")
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
	assert.NotContains(t, d1, "123456")
	assert.NotEqual(t, d1, Digest("123457"))
}
