package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwerrors "github.com/planwise/planwise/internal/errors"
)

func TestAESGCMRoundTrip(t *testing.T) {
	c := NewAESGCM("user-secret")
	plaintext := []byte(`{"tables":[]}`)

	blob, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, blob)

	got, err := c.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESGCMNonDeterministicBlobs(t *testing.T) {
	c := NewAESGCM("s")
	a, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per encryption")
}

func TestAESGCMWrongKey(t *testing.T) {
	blob, err := NewAESGCM("right").Encrypt([]byte("data"))
	require.NoError(t, err)

	_, err = NewAESGCM("wrong").Decrypt(blob)
	assert.ErrorIs(t, err, pwerrors.ErrDecrypt)
}

func TestAESGCMCorruptedBlob(t *testing.T) {
	c := NewAESGCM("s")

	t.Run("truncated", func(t *testing.T) {
		_, err := c.Decrypt([]byte{0x01, 0x02})
		assert.ErrorIs(t, err, pwerrors.ErrDecrypt)
	})

	t.Run("flipped bit", func(t *testing.T) {
		blob, err := c.Encrypt([]byte("data"))
		require.NoError(t, err)
		blob[len(blob)-1] ^= 0xFF
		_, err = c.Decrypt(blob)
		assert.ErrorIs(t, err, pwerrors.ErrDecrypt)
	})
}
