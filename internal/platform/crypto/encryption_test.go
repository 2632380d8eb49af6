package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealOpenRoundTrip(t *testing.T) {
	svc, err := New(testKey)
	require.NoError(t, err)
	require.True(t, svc.Configured())

	sealed, err := svc.SealString("12345678")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "12345678")

	again, err := svc.SealString("12345678")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonces must differ")

	plain, err := svc.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "12345678", plain)
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	require.NoError(t, err)
	assert.False(t, svc.Configured())

	sealed, err := svc.SealString("abc")
	require.NoError(t, err)
	plain, err := svc.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abc", plain)
}

func TestRejectsShortKey(t *testing.T) {
	_, err := New("short")
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	keyed, err := New(testKey)
	require.NoError(t, err)
	plain, err := New("")
	require.NoError(t, err)

	assert.Equal(t, keyed.Fingerprint("12345678"), keyed.Fingerprint("12345678"))
	assert.NotEqual(t, keyed.Fingerprint("12345678"), keyed.Fingerprint("12345679"))
	assert.NotEqual(t, keyed.Fingerprint("12345678"), plain.Fingerprint("12345678"))
	assert.Len(t, plain.Fingerprint("12345678"), 64)
	assert.Empty(t, keyed.Fingerprint(""))
}
