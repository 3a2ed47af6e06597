package common

import (
	"encoding/hex"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	require.NoError(t, err)
	assert.Len(t, s, n*2)

	_, err = hex.DecodeString(s)
	assert.NoError(t, err, "string is not valid hex")
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestGenerateRandByteArray_Length(t *testing.T) {
	buf := GenerateRandByteArray(24)
	assert.Len(t, buf, 24)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("hunter2")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}

	// nil must be a no-op
	WipeByteArray(nil)
}

func TestMakeVerifyCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := MakeVerifyCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)

		_, err = strconv.Atoi(code)
		require.NoError(t, err, "code %q must be numeric", code)
	}
}

func TestMakeVerifyCode_ZeroDigits(t *testing.T) {
	code, err := MakeVerifyCode(0)
	require.NoError(t, err)
	assert.Empty(t, code)
}
