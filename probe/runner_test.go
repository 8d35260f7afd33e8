package probe

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"bitcoin-auth-probe/auth"
	"bitcoin-auth-probe/crypto/key_secp256k1"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(opts ...Option) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	opts = append([]Option{WithOutput(&stdout, &stderr), WithLogger(logger)}, opts...)
	return New(opts...), &stdout, &stderr
}

func TestDefaultRequest(t *testing.T) {
	req := DefaultRequest()
	assert.Equal(t, "/api/test", req.Path)
	assert.Equal(t, `{"message":"hello world"}`, req.Body)
	assert.Equal(t, req, DefaultRequest())
}

func TestRunSuccess(t *testing.T) {
	r, stdout, stderr := newTestRunner()

	res := r.RunResult()
	require.Nil(t, res.Caught)
	assert.Empty(t, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Attempting to generate private key...", lines[0])
	assert.Equal(t, "Private key WIF: "+res.Wif, lines[1])
	assert.Equal(t, "Attempting to get auth token...", lines[2])
	assert.Equal(t, "Generated token: "+res.Token, lines[3])

	// The printed WIF decodes back to a key
	privK, err := key_secp256k1.FromWif(res.Wif)
	require.NoError(t, err)
	assert.Equal(t, res.Wif, key_secp256k1.ToWif(privK))

	// The token covers the fixed request
	req := DefaultRequest()
	tok, err := auth.ParseAuthToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, key_secp256k1.PublicHex(privK), tok.PubKey)
	assert.NoError(t, tok.Verify(auth.Target{RequestPath: req.Path, Body: req.Body}, 0))
}

func TestRunPassesFixedRequest(t *testing.T) {
	var seen []auth.Config
	deriver := TokenDeriverFunc(func(cfg auth.Config) (string, error) {
		seen = append(seen, cfg)
		return "token", nil
	})
	r, _, _ := newTestRunner(WithTokenDeriver(deriver))

	first := r.RunResult()
	second := r.RunResult()

	require.Len(t, seen, 2)
	for _, cfg := range seen {
		assert.Equal(t, "/api/test", cfg.RequestPath)
		assert.Equal(t, `{"message":"hello world"}`, cfg.Body)
	}
	assert.Equal(t, first.Wif, seen[0].PrivateKeyWif)
	assert.Equal(t, second.Wif, seen[1].PrivateKeyWif)
}

func TestRunTwiceDiffers(t *testing.T) {
	r, _, _ := newTestRunner()

	a := r.RunResult()
	b := r.RunResult()
	require.Nil(t, a.Caught)
	require.Nil(t, b.Caught)
	assert.NotEqual(t, a.Wif, b.Wif)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestRunMalformedKey(t *testing.T) {
	r, stdout, stderr := newTestRunner(WithKeyEncoder(func(*ec.PrivateKey) string { return "" }))

	assert.NotPanics(t, r.Run)

	assert.NotContains(t, stdout.String(), "Generated token:")
	out := stderr.String()
	assert.True(t, strings.HasPrefix(out, "Error during getAuthToken test:\n"))
	assert.Contains(t, out, "Message: "+auth.ErrMissingPrivateKey.Error())
	assert.Contains(t, out, "Stack:")
}

func TestRunReportsCaughtValues(t *testing.T) {
	tests := []struct {
		name      string
		keys      KeyGenerator
		expected  string
		withStack bool
	}{
		{
			name: "Plain error is printed verbatim",
			keys: KeyGeneratorFunc(func() (*ec.PrivateKey, error) {
				return nil, errors.New("entropy unavailable")
			}),
			expected: "entropy unavailable",
		},
		{
			name: "Non-error panic is printed verbatim",
			keys: KeyGeneratorFunc(func() (*ec.PrivateKey, error) {
				panic("boom")
			}),
			expected: "boom",
		},
		{
			name: "Panicked error without stack is printed verbatim",
			keys: KeyGeneratorFunc(func() (*ec.PrivateKey, error) {
				panic(errors.New("kaboom"))
			}),
			expected: "kaboom",
		},
		{
			name: "Derivation error carries a stack",
			keys: KeyGeneratorFunc(func() (*ec.PrivateKey, error) {
				return key_secp256k1.New()
			}),
			expected:  "Message: boom from deriver",
			withStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deriver := TokenDeriverFunc(func(auth.Config) (string, error) {
				return "", stackErr("boom from deriver")
			})
			r, _, stderr := newTestRunner(WithKeyGenerator(tt.keys), WithTokenDeriver(deriver))

			var res Result
			assert.NotPanics(t, func() { res = r.RunResult() })
			assert.NotNil(t, res.Caught)

			lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
			assert.Equal(t, "Error during getAuthToken test:", lines[0])
			assert.Equal(t, tt.expected, lines[1])
			if tt.withStack {
				assert.Contains(t, stderr.String(), "Stack:")
			} else {
				assert.Len(t, lines, 2)
			}
		})
	}
}
