package cache

import (
	"context"
	"encoding/json"

	"periscope-sol/internal/idl"
	"periscope-sol/internal/idlerr"
)

// IdlCache 以程序地址（base58）为 key 缓存规范格式的 IDL。
// 缓存中保存的是 MarshalCanonical 的结果，每次 Get 都重新解析，调用方独占返回的文档。
type IdlCache interface {
	Get(ctx context.Context, program string) (*idl.Document, bool, error)
	Set(ctx context.Context, program string, doc *idl.Document) error
	Clear(ctx context.Context, program string) error
	ClearAll(ctx context.Context) error
}

func encode(program string, doc *idl.Document) ([]byte, error) {
	data, err := doc.MarshalCanonical()
	if err != nil {
		return nil, idlerr.CacheFailed("encode "+program, err)
	}
	return data, nil
}

func decode(program string, data []byte) (*idl.Document, error) {
	var doc idl.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, idlerr.CacheFailed("decode "+program, err)
	}
	return &doc, nil
}
