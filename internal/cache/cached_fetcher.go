package cache

import (
	"context"

	"periscope-sol/internal/idl"
	"periscope-sol/internal/logic/fetcher"
	"periscope-sol/internal/pkg/logger"
)

// Retriever 由 fetcher.Fetcher 实现
type Retriever interface {
	Retrieve(ctx context.Context, src fetcher.Source) (*idl.Document, error)
}

// CachedFetcher 只缓存链上来源；文件与 URL 来源每次都直接读取。
// 缓存读写失败只记录日志，不影响获取结果。
type CachedFetcher struct {
	inner Retriever
	cache IdlCache
}

func NewCachedFetcher(inner Retriever, cache IdlCache) *CachedFetcher {
	return &CachedFetcher{inner: inner, cache: cache}
}

// Retrieve refresh 为 true 时跳过缓存读取，但仍写回最新结果
func (c *CachedFetcher) Retrieve(ctx context.Context, src fetcher.Source, refresh bool) (*idl.Document, error) {
	if src.Kind != fetcher.SourceOnChain {
		return c.inner.Retrieve(ctx, src)
	}

	program := src.Program.String()
	if !refresh {
		doc, ok, err := c.cache.Get(ctx, program)
		switch {
		case err != nil:
			logger.Warnf("[CachedFetcher] 读取缓存失败, program=%s err=%v", program, err)
		case ok:
			logger.Debugf("[CachedFetcher] 命中缓存, program=%s", program)
			return doc, nil
		}
	}

	doc, err := c.inner.Retrieve(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, program, doc); err != nil {
		logger.Warnf("[CachedFetcher] 写入缓存失败, program=%s err=%v", program, err)
	}
	return doc, nil
}
