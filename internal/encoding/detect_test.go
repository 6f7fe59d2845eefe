package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/encoding"
)

func TestDetect_UTF8Passthrough(t *testing.T) {
	input := "name,price\ncrème fraîche,12.50\njalapeño,3.00\n"

	r, charset, err := encoding.Detect(bytes.NewReader([]byte(input)))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestDetect_Windows1252(t *testing.T) {
	// "jalapeño,3" with ñ = 0xF1 in Windows-1252.
	latin1Bytes := []byte{'j', 'a', 'l', 'a', 'p', 'e', 0xF1, 'o', ',', '3', '\n'}

	r, charset, err := encoding.Detect(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	assert.NotEqual(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "jalapeño,3\n", string(got))
}

func TestDetect_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,price\n")...)

	r, charset, err := encoding.Detect(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "name,price\n", string(got))
}

func TestDetect_UTF16LE(t *testing.T) {
	input := []byte{0xFF, 0xFE, 'o', 0, 'k', 0}

	r, charset, err := encoding.Detect(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF16LE, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(got))
}
