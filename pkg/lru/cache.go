/*
Copyright 2024 The Walletkit Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package lru implements an LRU cache bounded by an aggregate cost
// ceiling rather than an entry count.
package lru

import (
	"container/list"
	"sync"
)

// Cache is a cost-bounded LRU cache, safe for concurrent access.
//
// Each entry carries a caller-provided cost (typically its size in
// bytes). After any Add returns, the sum of all entry costs is at most
// the ceiling, provided the entry itself fits within it.
type Cache struct {
	maxCost int64

	lk   sync.Mutex
	cost int64
	ll   *list.List
	m    map[string]*list.Element
}

type entry struct {
	key   string
	value interface{}
	cost  int64
}

// New returns a new cache with the provided cost ceiling.
func New(maxCost int64) *Cache {
	return &Cache{
		maxCost: maxCost,
		ll:      list.New(),
		m:       make(map[string]*list.Element),
	}
}

// Add adds the provided key and value to the cache with the given
// cost, evicting old entries as needed to stay under the ceiling.
// An entry whose cost alone exceeds the ceiling is not stored.
func (c *Cache) Add(key string, value interface{}, cost int64) {
	if cost > c.maxCost {
		return
	}
	c.lk.Lock()
	defer c.lk.Unlock()

	if ee, ok := c.m[key]; ok {
		c.ll.MoveToFront(ee)
		en := ee.Value.(*entry)
		c.cost += cost - en.cost
		en.value = value
		en.cost = cost
	} else {
		c.m[key] = c.ll.PushFront(&entry{key, value, cost})
		c.cost += cost
	}

	for c.cost > c.maxCost {
		c.removeOldest()
	}
}

// Get fetches the key's value from the cache.
// The ok result will be true if the item was found.
func (c *Cache) Get(key string) (value interface{}, ok bool) {
	c.lk.Lock()
	defer c.lk.Unlock()
	if ele, hit := c.m[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(*entry).value, true
	}
	return
}

// Remove removes the entry for key, if present.
func (c *Cache) Remove(key string) {
	c.lk.Lock()
	defer c.lk.Unlock()
	if ele, ok := c.m[key]; ok {
		en := ele.Value.(*entry)
		c.ll.Remove(ele)
		delete(c.m, en.key)
		c.cost -= en.cost
	}
}

// RemoveOldest removes the oldest item in the cache and returns it.
// If the cache is empty, the empty string and nil are returned.
func (c *Cache) RemoveOldest() (key string, value interface{}) {
	c.lk.Lock()
	defer c.lk.Unlock()
	return c.removeOldest()
}

// note: must hold c.lk
func (c *Cache) removeOldest() (key string, value interface{}) {
	ele := c.ll.Back()
	if ele == nil {
		return
	}
	en := ele.Value.(*entry)
	c.ll.Remove(ele)
	delete(c.m, en.key)
	c.cost -= en.cost
	return en.key, en.value
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.lk.Lock()
	defer c.lk.Unlock()
	c.ll.Init()
	c.m = make(map[string]*list.Element)
	c.cost = 0
}

// Len returns the number of items in the cache.
func (c *Cache) Len() int {
	c.lk.Lock()
	defer c.lk.Unlock()
	return c.ll.Len()
}

// Cost returns the summed cost of all items in the cache.
func (c *Cache) Cost() int64 {
	c.lk.Lock()
	defer c.lk.Unlock()
	return c.cost
}
