package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAttachment(t *testing.T) {
	t.Run("bare base64", func(t *testing.T) {
		got, err := decodeAttachment(&FilePayload{Name: "a.txt", Data: "aGVsbG8="})
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("data url", func(t *testing.T) {
		got, err := decodeAttachment(&FilePayload{Name: "a.webm", Data: "data:audio/webm;base64,aGVsbG8="})
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("data url without comma", func(t *testing.T) {
		_, err := decodeAttachment(&FilePayload{Name: "a", Data: "data:audio/webm;base64"})
		assert.Error(t, err)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := decodeAttachment(&FilePayload{Name: "a", Data: "!!!"})
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := decodeAttachment(&FilePayload{Name: "a", Data: ""})
		assert.ErrorIs(t, err, errEmptyAttachment)
	})
}
