package submission

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFile_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sizes := []int{0, 1, 2, 3, 57, 1024, 64 * 1024}

	for _, size := range sizes {
		data := make([]byte, size)
		rng.Read(data)

		uri, err := EncodeFile(context.Background(), BytesFile("blob.bin", data))
		require.NoError(t, err)

		_, decoded, err := DecodeDataURI(uri)
		require.NoError(t, err)
		assert.Equal(t, data, decoded, "size %d", size)
	}
}

func TestEncodeFile_EmptyFile(t *testing.T) {
	uri, err := EncodeFile(context.Background(), BytesFile("empty.txt", nil))
	require.NoError(t, err)
	assert.Equal(t, "data:text/plain;base64,", uri)

	_, decoded, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestEncodeFile_MediaType(t *testing.T) {
	uri, err := EncodeFile(context.Background(), BytesFile("report.pdf", fakePDF(64)))
	require.NoError(t, err)
	mediaType, _, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mediaType)

	// No extension: the content decides.
	uri, err = EncodeFile(context.Background(), BytesFile("scan", fakePDF(64)))
	require.NoError(t, err)
	mediaType, _, err = DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mediaType)
}

func TestEncodeFile_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bp-report.pdf")
	data := fakePDF(2048)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f := LocalFile(path)
	assert.Equal(t, "bp-report.pdf", f.Name())

	uri, err := EncodeFile(context.Background(), f)
	require.NoError(t, err)
	_, decoded, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncodeFile_ReadErrors(t *testing.T) {
	_, err := EncodeFile(context.Background(), brokenFile{name: "gone.pdf"})
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "gone.pdf", readErr.Name)
	assert.ErrorIs(t, err, errRevoked)

	uri, err := EncodeFile(context.Background(), truncatedFile{name: "half.pdf"})
	require.ErrorAs(t, err, &readErr)
	assert.Empty(t, uri)

	_, err = EncodeFile(context.Background(), LocalFile(filepath.Join(t.TempDir(), "missing.pdf")))
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EncodeFile(ctx, BytesFile("a.pdf", []byte("x")))
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeDataURI_Malformed(t *testing.T) {
	cases := []string{
		"",
		"plain text",
		"data:text/plain,hello",
		"data:text/plain;base64",
		"data:text/plain;base64,***",
	}
	for _, c := range cases {
		_, _, err := DecodeDataURI(c)
		assert.ErrorIs(t, err, ErrMalformedDataURI, "input %q", c)
	}
}
