package decompress

import (
	"bytes"
	"io"

	"periscope-sol/internal/idlerr"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// Algorithm 表示一种解压算法
type Algorithm uint8

const (
	// AlgorithmZlib zlib 封装的 deflate（带头部与 adler32 校验），Anchor 默认格式
	AlgorithmZlib Algorithm = iota
	// AlgorithmDeflate 原始 deflate（无头部无校验）
	AlgorithmDeflate
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmZlib:
		return "zlib"
	case AlgorithmDeflate:
		return "deflate"
	default:
		return "unknown"
	}
}

// Algorithms 尝试顺序固定：先 zlib，后原始 deflate
var Algorithms = []Algorithm{AlgorithmZlib, AlgorithmDeflate}

// Inflate 依次尝试 Algorithms，返回第一个无错误解出的结果；全部失败时返回单一的 DecompressionFailed。
// 不校验结果是否为合法 UTF-8。
func Inflate(compressed []byte) ([]byte, error) {
	for _, algo := range Algorithms {
		if out, err := InflateWith(compressed, algo); err == nil {
			return out, nil
		}
	}
	return nil, idlerr.DecompressionFailed()
}

// InflateWith 使用指定算法解压
func InflateWith(compressed []byte, algo Algorithm) ([]byte, error) {
	switch algo {
	case AlgorithmZlib:
		return inflateZlib(compressed)
	case AlgorithmDeflate:
		return inflateDeflate(compressed)
	default:
		return nil, idlerr.DecompressionFailed()
	}
}

func inflateZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func inflateDeflate(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}
