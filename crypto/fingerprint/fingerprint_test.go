package fingerprint

import (
	"regexp"
	"testing"

	"bitcoin-auth-probe/crypto/key_secp256k1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	privK, err := key_secp256k1.New()
	require.NoError(t, err)
	otherK, err := key_secp256k1.New()
	require.NoError(t, err)

	a := New(privK.PubKey(), []byte("/api/test"))
	assert.Equal(t, a, New(privK.PubKey(), []byte("/api/test")))
	assert.NotEqual(t, a, New(otherK.PubKey(), []byte("/api/test")))
	assert.NotEqual(t, a, New(privK.PubKey(), []byte("/api/other")))

	for _, d := range a {
		assert.True(t, d >= 0 && d <= 9)
	}
	assert.Regexp(t, regexp.MustCompile(`^(\d{5} ){5}\d{5}$`), a.String())
}
