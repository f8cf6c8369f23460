package envelope

import (
	"encoding/binary"
	"errors"
	"testing"

	"periscope-sol/internal/consts"
	"periscope-sol/internal/idlerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAccount 构造 IDL 账户数据：header + payload + 尾部填充
func buildAccount(declaredLen uint32, payload []byte, padding int) []byte {
	buf := make([]byte, consts.IdlHeaderSize, consts.IdlHeaderSize+len(payload)+padding)
	for i := 0; i < consts.IdlDiscriminatorSize; i++ {
		buf[i] = byte(0x18 + i)
	}
	for i := consts.IdlDiscriminatorSize; i < consts.IdlDataLenOffset; i++ {
		buf[i] = 0xAB
	}
	binary.LittleEndian.PutUint32(buf[consts.IdlDataLenOffset:], declaredLen)
	buf = append(buf, payload...)
	buf = append(buf, make([]byte, padding)...)
	return buf
}

func TestHeaderConstants(t *testing.T) {
	assert.Equal(t, 8, consts.IdlDiscriminatorSize)
	assert.Equal(t, 32, consts.IdlAuthoritySize)
	assert.Equal(t, 4, consts.IdlDataLenSize)
	assert.Equal(t, 40, consts.IdlDataLenOffset)
	assert.Equal(t, 44, consts.IdlHeaderSize)
}

func TestDecode_TooSmall(t *testing.T) {
	for _, n := range []int{0, 1, 40, 43} {
		_, err := Decode(make([]byte, n))
		require.Error(t, err)
		assert.True(t, errors.Is(err, idlerr.ErrEnvelopeTooSmall), "len=%d", n)
	}
}

func TestDecode_EmptyPayload(t *testing.T) {
	// 8 字节 0 + 32 字节 0 + u32(0)
	_, err := Decode(make([]byte, 44))
	require.Error(t, err)
	assert.Equal(t, idlerr.KindEmptyPayload, idlerr.KindOf(err))

	// 声明长度为 0 时即使后面还有数据也算空
	_, err = Decode(buildAccount(0, []byte{1, 2, 3}, 0))
	assert.True(t, errors.Is(err, idlerr.ErrEmptyPayload))
}

func TestDecode_Truncated(t *testing.T) {
	_, err := Decode(buildAccount(100, make([]byte, 60), 0))
	require.Error(t, err)

	var e *idlerr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, idlerr.KindPayloadTruncated, e.Kind)
	assert.Equal(t, uint32(100), e.Expected)
	assert.Equal(t, uint32(60), e.Actual)
	assert.Contains(t, err.Error(), "expected 100 bytes, got 60")
}

func TestDecode_TruncatedNoPayload(t *testing.T) {
	_, err := Decode(buildAccount(5, nil, 0))
	var e *idlerr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, idlerr.KindPayloadTruncated, e.Kind)
	assert.Equal(t, uint32(5), e.Expected)
	assert.Equal(t, uint32(0), e.Actual)
}

func TestDecode_WellFormed(t *testing.T) {
	payload := []byte("compressed-idl-bytes")

	tests := []struct {
		name    string
		padding int
	}{
		{"exact", 0},
		{"with account padding", 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildAccount(uint32(len(payload)), payload, tt.padding)

			env, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, payload, env.Data)
			assert.Len(t, env.Data, len(payload))
			assert.Equal(t, byte(0x18), env.Discriminator[0])
			assert.Equal(t, byte(0xAB), env.Authority[31])

			got, err := Payload(data)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}
