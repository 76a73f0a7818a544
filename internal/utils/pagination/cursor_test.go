package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := Encode(Cursor{ID: 42, CreatedUnix: 1700000000123})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, c.ID)
	assert.EqualValues(t, 1700000000123, c.CreatedUnix)
}

func TestDecodeEmptyTokenIsFirstPage(t *testing.T) {
	c, err := Decode("")
	require.NoError(t, err)
	assert.Zero(t, c.ID)
	assert.Zero(t, c.CreatedUnix)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("!!!not base64!!!")
	assert.Error(t, err)

	_, err = Decode("bm90IGpzb24")
	assert.Error(t, err)
}
