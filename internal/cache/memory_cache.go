package cache

import (
	"context"
	"sync"

	"periscope-sol/internal/idl"
)

// MemoryIdlCache 进程内缓存，进程退出即失效
type MemoryIdlCache struct {
	mu      sync.RWMutex
	entries map[string][]byte // program -> 规范格式 JSON
}

func NewMemoryIdlCache() *MemoryIdlCache {
	return &MemoryIdlCache{
		entries: make(map[string][]byte),
	}
}

func (c *MemoryIdlCache) Get(_ context.Context, program string) (*idl.Document, bool, error) {
	c.mu.RLock()
	data, ok := c.entries[program]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	doc, err := decode(program, data)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (c *MemoryIdlCache) Set(_ context.Context, program string, doc *idl.Document) error {
	data, err := encode(program, doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[program] = data
	return nil
}

func (c *MemoryIdlCache) Clear(_ context.Context, program string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, program)
	return nil
}

func (c *MemoryIdlCache) ClearAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	return nil
}

// Len 当前缓存条目数
func (c *MemoryIdlCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
