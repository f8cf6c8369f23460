package cache

import (
	"context"
	"errors"
	"testing"

	"periscope-sol/internal/idl"
	"periscope-sol/internal/idlerr"
	"periscope-sol/internal/logic/fetcher"
	"periscope-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRetriever struct {
	doc   *idl.Document
	err   error
	calls int
}

func (r *countingRetriever) Retrieve(_ context.Context, _ fetcher.Source) (*idl.Document, error) {
	r.calls++
	return r.doc, r.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*idl.Document, bool, error) {
	return nil, false, idlerr.CacheFailed("get", errors.New("disk full"))
}

func (brokenCache) Set(context.Context, string, *idl.Document) error {
	return idlerr.CacheFailed("set", errors.New("disk full"))
}

func (brokenCache) Clear(context.Context, string) error { return nil }

func (brokenCache) ClearAll(context.Context) error { return nil }

func TestCachedFetcher_OnChain(t *testing.T) {
	ctx := context.Background()
	inner := &countingRetriever{doc: sampleDocument(t)}
	mem := NewMemoryIdlCache()
	cf := NewCachedFetcher(inner, mem)
	src := fetcher.OnChain(types.PubkeyFromBase58(sampleProgram))

	doc, err := cf.Retrieve(ctx, src, false)
	require.NoError(t, err)
	assert.Equal(t, "jupiter", doc.Metadata.Name)
	assert.Equal(t, 1, inner.calls)

	_, err = cf.Retrieve(ctx, src, false)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second call served from cache")

	_, err = cf.Retrieve(ctx, src, true)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "refresh bypasses cache")
	assert.Equal(t, 1, mem.Len())
}

func TestCachedFetcher_FileSourceNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingRetriever{doc: sampleDocument(t)}
	mem := NewMemoryIdlCache()
	cf := NewCachedFetcher(inner, mem)

	for i := 0; i < 2; i++ {
		_, err := cf.Retrieve(ctx, fetcher.LocalFile("idl.json"), false)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, mem.Len())
}

func TestCachedFetcher_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingRetriever{err: idlerr.AccountNotFound(sampleProgram)}
	mem := NewMemoryIdlCache()
	cf := NewCachedFetcher(inner, mem)

	_, err := cf.Retrieve(ctx, fetcher.OnChain(types.PubkeyFromBase58(sampleProgram)), false)
	assert.True(t, errors.Is(err, idlerr.ErrAccountNotFound))
	assert.Equal(t, 0, mem.Len())
}

func TestCachedFetcher_BrokenCacheFallsThrough(t *testing.T) {
	inner := &countingRetriever{doc: sampleDocument(t)}
	cf := NewCachedFetcher(inner, brokenCache{})

	doc, err := cf.Retrieve(context.Background(), fetcher.OnChain(types.PubkeyFromBase58(sampleProgram)), false)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, 1, inner.calls)
}
