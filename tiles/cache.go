package tiles

import (
	"strings"
	"sync"
	"time"
)

// tileEntry 缓存项
type tileEntry struct {
	data      []byte
	expiresAt time.Time
}

// TileCache 瓦片缓存
type TileCache struct {
	mu      sync.RWMutex
	entries map[string]*tileEntry
	maxSize int
	ttl     time.Duration
}

// NewTileCache 创建缓存
func NewTileCache(maxSize int, ttl time.Duration) *TileCache {
	cache := &TileCache{
		entries: make(map[string]*tileEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
	go cache.cleanupLoop()
	return cache
}

// Get 获取缓存
func (c *TileCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.data, true
}

// Set 设置缓存
func (c *TileCache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 缓存满了先删最旧的项
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &tileEntry{
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// InvalidatePrefix 删除指定前缀的全部缓存项，图形编辑后按会话失效
func (c *TileCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// evictOldest 删除最旧的缓存项
func (c *TileCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.expiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// cleanupLoop 定期清理过期缓存
func (c *TileCache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup 清理过期项
func (c *TileCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Clear 清空缓存
func (c *TileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*tileEntry)
}

// Size 缓存大小
func (c *TileCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
