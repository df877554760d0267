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

// Package diskstore persists encoded image bytes keyed by cache key
// across process restarts, on top of a single mutable
// github.com/syndtr/goleveldb database directory.
package diskstore

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// ErrCacheMiss is returned by Get when no entry exists for a key,
// or when the stored entry is unreadable.
var ErrCacheMiss = errors.New("diskstore: not in cache")

// Store is a persistent key to encoded-image-bytes store.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	mu        sync.Mutex // guards db swap during Wipe
	db        *leveldb.DB
	path      string
	opts      *opt.Options
	readOpts  *opt.ReadOptions
	writeOpts *opt.WriteOptions
}

// Open opens (creating if needed) the store in the database
// directory path.
func Open(path string) (*Store, error) {
	opts := &opt.Options{
		// 10 bits per key is a 0.812% false positive rate,
		// or a 1/123th disk check rate.
		Filter: filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:       db,
		path:     path,
		opts:     opts,
		readOpts: &opt.ReadOptions{},
		// Cached images are rebuildable; fsync per write isn't
		// worth the latency.
		writeOpts: &opt.WriteOptions{Sync: false},
	}, nil
}

// Get returns the bytes stored for key.
// It returns ErrCacheMiss if the key has no entry.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	v, err := db.Get([]byte(key), s.readOpts)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	if len(v) == 0 {
		return nil, ErrCacheMiss
	}
	return v, nil
}

// Put stores data under key, replacing any previous entry.
// Concurrent writers of the same key produce equivalent bytes, so
// last-write-wins is fine.
func (s *Store) Put(key string, data []byte) error {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	return db.Put([]byte(key), data, s.writeOpts)
}

// Delete removes the entry for key, if any.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	return db.Delete([]byte(key), s.writeOpts)
}

// Wipe removes every stored entry by deleting and recreating the
// underlying database.
func (s *Store) Wipe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.path); err != nil {
		return err
	}
	db, err := leveldb.OpenFile(s.path, s.opts)
	if err != nil {
		return fmt.Errorf("diskstore: error recreating %s: %v", s.path, err)
	}
	s.db = db
	return nil
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
