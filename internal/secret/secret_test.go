package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestAESGCMRoundTrip(t *testing.T) {
	s, err := NewAESGCM([]byte(testKey))
	require.NoError(t, err)

	sealed, err := s.Seal("hunter2hunter")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter", sealed)

	again, err := s.Seal("hunter2hunter")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ")

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2hunter", opened)
}

func TestAESGCMOpenErrors(t *testing.T) {
	s, err := NewAESGCM([]byte(testKey))
	require.NoError(t, err)

	_, err = s.Open("not base64!")
	assert.Error(t, err)

	_, err = s.Open("AAAA")
	assert.Error(t, err)

	other, err := NewAESGCM([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	sealed, err := other.Seal("pw")
	require.NoError(t, err)
	_, err = s.Open(sealed)
	assert.Error(t, err)
}

func TestNewAESGCMBadKey(t *testing.T) {
	_, err := NewAESGCM([]byte("short"))
	assert.Error(t, err)
}

func TestPlain(t *testing.T) {
	var s Sealer = Plain{}

	sealed, err := s.Seal("pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", sealed)

	opened, err := s.Open("pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", opened)
}
