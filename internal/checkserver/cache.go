package checkserver

import (
	"container/list"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// cacheKey 源码的 BLAKE2b-256 摘要
type cacheKey [blake2b.Size256]byte

func keyOf(code string) cacheKey {
	return blake2b.Sum256([]byte(code))
}

type cacheEntry struct {
	key    cacheKey
	status int
	resp   *CheckResponse
}

// resultCache 按最近使用淘汰的检查结果缓存
//
// 同一个服务内前端选项固定，因此只用源码摘要作为键。
// 缓存的 CheckResponse 只读，可以被多个请求共享。
type resultCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[cacheKey]*list.Element
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[cacheKey]*list.Element),
	}
}

func (c *resultCache) get(key cacheKey) (int, *CheckResponse, bool) {
	if c == nil || c.capacity <= 0 {
		return 0, nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return 0, nil, false
	}
	c.order.MoveToFront(el)
	entry := el.Value.(*cacheEntry)
	return entry.status, entry.resp, true
}

func (c *resultCache) put(key cacheKey, status int, resp *CheckResponse) {
	if c == nil || c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.status, entry.resp = status, resp
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, status: status, resp: resp})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
