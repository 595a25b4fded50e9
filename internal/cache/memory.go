package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store backed by go-cache.
type Memory struct {
	c   *gocache.Cache
	ttl time.Duration
}

func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Memory{
		c:   gocache.New(defaultTTL, 2*defaultTTL),
		ttl: defaultTTL,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]byte)
	return raw, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.ttl
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	for key := range m.c.Items() {
		if strings.HasPrefix(key, prefix) {
			m.c.Delete(key)
		}
	}
	return nil
}

// Len reports the number of unexpired entries.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}
