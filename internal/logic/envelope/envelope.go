package envelope

import (
	"encoding/binary"
	"fmt"

	"periscope-sol/internal/consts"
	"periscope-sol/internal/idlerr"
	"periscope-sol/internal/types"

	"github.com/near/borsh-go"
)

// Envelope IDL 账户数据的 borsh 布局：discriminator + authority + Vec<u8>
//
// ┌──────────────┬──────────────┬──────────────┬────────────────────┐
// │ Discriminator│  Authority   │   data_len   │  Compressed Data   │
// │   (8 bytes)  │  (32 bytes)  │  (4 bytes)   │    (N bytes)       │
// └──────────────┴──────────────┴──────────────┴────────────────────┘
type Envelope struct {
	Discriminator [consts.IdlDiscriminatorSize]byte
	Authority     types.Pubkey
	Data          []byte
}

// Decode 校验头部并解析 IDL 账户，校验顺序固定：
// 长度不足 44 -> EnvelopeTooSmall；声明长度为 0 -> EmptyPayload；剩余字节不足 -> PayloadTruncated。
// discriminator 与 authority 不做校验。
func Decode(data []byte) (*Envelope, error) {
	if len(data) < consts.IdlHeaderSize {
		return nil, idlerr.EnvelopeTooSmall()
	}

	dataLen := binary.LittleEndian.Uint32(data[consts.IdlDataLenOffset:consts.IdlHeaderSize])
	if dataLen == 0 {
		return nil, idlerr.EmptyPayload()
	}

	remaining := uint64(len(data) - consts.IdlHeaderSize)
	if remaining < uint64(dataLen) {
		return nil, idlerr.PayloadTruncated(dataLen, uint32(remaining))
	}

	// 账户空间通常大于实际数据，只截取声明长度交给 borsh，避免尾部填充干扰
	end := consts.IdlHeaderSize + int(dataLen)
	env := &Envelope{}
	if err := borsh.Deserialize(env, data[:end]); err != nil {
		return nil, fmt.Errorf("decode idl account envelope: %w", err)
	}
	return env, nil
}

// Payload 只返回压缩数据切片，长度恰好等于头部声明的长度
func Payload(data []byte) ([]byte, error) {
	env, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}
