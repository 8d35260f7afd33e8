package server

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func httptestBody(s string) io.ReadCloser {
	return io.NopCloser(bytes.NewBufferString(s))
}

// flipLastBase64Bit re-spells a padded base64 string without changing the decoded bytes
func flipLastBase64Bit(t *testing.T, sig string) string {
	t.Helper()
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

	trimmed := strings.TrimRight(sig, "=")
	require.Less(t, len(trimmed), len(sig), "signature has no padding")
	last := strings.IndexByte(alphabet, trimmed[len(trimmed)-1])
	require.GreaterOrEqual(t, last, 0)
	return trimmed[:len(trimmed)-1] + string(alphabet[last^1]) + sig[len(trimmed):]
}
