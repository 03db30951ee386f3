package agent

import "container/list"

// lruCache is a small LRU keyed by string. Capacity 0 means unbounded.
type lruCache struct {
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

type lruItem struct {
	key   string
	value interface{}
}

func newLRU(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (interface{}, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruItem).value, true
}

func (c *lruCache) put(key string, value interface{}) {
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*lruItem).value = value
		return
	}
	c.items[key] = c.order.PushFront(&lruItem{key: key, value: value})
	if c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruItem).key)
	}
}

func (c *lruCache) len() int { return c.order.Len() }
