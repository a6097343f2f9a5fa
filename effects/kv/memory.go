package kv

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means never
}

// MemoryClient is a process-local Client for tests and examples. Expiry is
// lazy: an expired key disappears the next time anything looks at it.
type MemoryClient struct {
	mu        sync.Mutex
	entries   map[string]entry
	published map[string][]string
	closed    bool
}

var _ Client = (*MemoryClient)(nil)

// NewMemoryClient returns an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		entries:   make(map[string]entry),
		published: make(map[string][]string),
	}
}

func (c *MemoryClient) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", false, fmt.Errorf("client closed")
	}
	e, ok := c.liveEntry(key)
	if !ok {
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *MemoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("client closed")
	}
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryClient) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, fmt.Errorf("client closed")
	}
	_, ok := c.liveEntry(key)
	delete(c.entries, key)
	return ok, nil
}

// Publish records the payload for later inspection. Nothing subscribes to a
// memory client, so the receiver count is always zero.
func (c *MemoryClient) Publish(_ context.Context, channel, payload string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, fmt.Errorf("client closed")
	}
	c.published[channel] = append(c.published[channel], payload)
	return 0, nil
}

func (c *MemoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Published returns the payloads published to a channel, in order.
func (c *MemoryClient) Published(channel string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.published[channel]))
	copy(out, c.published[channel])
	return out
}

// liveEntry looks up a key and reaps it if its TTL has passed. Callers must
// hold the lock.
func (c *MemoryClient) liveEntry(key string) (entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return entry{}, false
	}
	return e, true
}
