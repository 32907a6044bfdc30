package tx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-sdk/script"
)

func makePayload(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i)
	}
	return p
}

// Round-trip across every encoding boundary.
func TestOPReturnRoundTrip(t *testing.T) {
	sizes := []int{1, 74, 75, 76, 254, 255, 256, 65535}

	for _, n := range sizes {
		payload := makePayload(n)
		encoded, err := EncodeOPReturn(payload)
		require.NoError(t, err, "size %d", n)

		decoded, err := DecodeOPReturn(encoded)
		require.NoError(t, err, "size %d", n)
		assert.Equal(t, payload, decoded, "size %d", n)
	}
}

func TestEncodeOPReturnHeaders(t *testing.T) {
	tests := []struct {
		size       int
		wantHeader []byte
	}{
		{1, []byte{script.OpRETURN, 1}},
		{75, []byte{script.OpRETURN, 75}},
		{76, []byte{script.OpRETURN, script.OpPUSHDATA1, 76}},
		{255, []byte{script.OpRETURN, script.OpPUSHDATA1, 255}},
		{256, []byte{script.OpRETURN, script.OpPUSHDATA2, 0x00, 0x01}},
		{65535, []byte{script.OpRETURN, script.OpPUSHDATA2, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		encoded, err := EncodeOPReturn(makePayload(tt.size))
		require.NoError(t, err, "size %d", tt.size)
		assert.True(t, bytes.HasPrefix(encoded, tt.wantHeader), "size %d: header %x", tt.size, encoded[:len(tt.wantHeader)])
		assert.Len(t, encoded, len(tt.wantHeader)+tt.size)
	}
}

func TestEncodeOPReturnRejects(t *testing.T) {
	_, err := EncodeOPReturn(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = EncodeOPReturn(makePayload(65536))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeOPReturnRejects(t *testing.T) {
	valid, err := EncodeOPReturn(makePayload(100))
	require.NoError(t, err)

	tests := []struct {
		name   string
		script []byte
	}{
		{"empty", nil},
		{"one byte", []byte{script.OpRETURN}},
		{"wrong marker", append([]byte{script.OpDUP}, valid[1:]...)},
		{"truncated payload", valid[:len(valid)-1]},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
		{"truncated pushdata1 header", []byte{script.OpRETURN, script.OpPUSHDATA1}},
		{"truncated pushdata2 header", []byte{script.OpRETURN, script.OpPUSHDATA2, 0x01}},
		{"unsupported opcode", []byte{script.OpRETURN, script.OpPUSHDATA4, 1, 0, 0, 0, 0xAB}},
		{"declared zero length", []byte{script.OpRETURN, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOPReturn(tt.script)
			assert.ErrorIs(t, err, ErrInvalidOPReturn)
		})
	}
}

// Declared length is honored exactly: fewer bytes than declared is an
// error, never a silent truncation.
func TestDecodeOPReturnDeclaredLength(t *testing.T) {
	s := []byte{script.OpRETURN, script.OpPUSHDATA1, 10, 0x01, 0x02, 0x03}
	_, err := DecodeOPReturn(s)
	require.ErrorIs(t, err, ErrInvalidOPReturn)
	assert.Contains(t, err.Error(), "declared 10")
}

func TestIsOPReturn(t *testing.T) {
	encoded, err := EncodeOPReturn(makePayload(32))
	require.NoError(t, err)

	ok, offset := IsOPReturn(encoded)
	assert.True(t, ok)
	assert.Equal(t, 0, offset)

	prefixed := append([]byte{script.Op0}, encoded...)
	ok, offset = IsOPReturn(prefixed)
	assert.True(t, ok)
	assert.Equal(t, 1, offset)

	ok, _ = IsOPReturn([]byte{script.OpDUP, script.OpHASH160})
	assert.False(t, ok)

	ok, _ = IsOPReturn(nil)
	assert.False(t, ok)
}
