package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"instrument", "credit", "vehicle"} {
		k, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, Kind(s), k)
	}

	_, err := ParseKind("mortgage")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNew(t *testing.T) {
	now := time.Now()

	t.Run("Accepts the three allowed MIME types", func(t *testing.T) {
		for _, mt := range []string{"application/pdf", "image/jpeg", "image/png"} {
			d, err := New("f", mt, []byte{1}, now)
			require.NoError(t, err, mt)
			assert.Equal(t, mt, d.MimeType)
		}
	})

	t.Run("Rejects everything else", func(t *testing.T) {
		for _, mt := range []string{
			"image/gif",
			"image/webp",
			"text/plain",
			"application/msword",
			"application/octet-stream",
			"",
		} {
			_, err := New("f", mt, []byte{1}, now)
			assert.ErrorIs(t, err, ErrUnsupportedType, mt)
		}
	})

	t.Run("Rejects empty payload", func(t *testing.T) {
		_, err := New("f", "application/pdf", nil, now)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestBase64(t *testing.T) {
	d, err := New("f", "image/png", []byte("png-bytes"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "cG5nLWJ5dGVz", d.Base64())
}
