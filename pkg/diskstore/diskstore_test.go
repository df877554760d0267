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

package diskstore

import (
	"bytes"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "images.ldb"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := []byte("\x89PNG fake bytes")
	if err := s.Put("icon:BTC:24x24", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("icon:BTC:24x24")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %q; want %q", got, want)
	}
}

func TestMiss(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("nope"); err != ErrCacheMiss {
		t.Fatalf("Get(missing) = %v; want ErrCacheMiss", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("k"); err != ErrCacheMiss {
		t.Fatalf("Get after delete = %v; want ErrCacheMiss", err)
	}
}

func TestWipe(t *testing.T) {
	s := newTestStore(t)
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Put(k, []byte(k)); err != nil {
			t.Fatalf("Put(%q): %v", k, err)
		}
	}
	if err := s.Wipe(); err != nil {
		t.Fatalf("Wipe: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, err := s.Get(k); err != ErrCacheMiss {
			t.Fatalf("Get(%q) after wipe = %v; want ErrCacheMiss", k, err)
		}
	}
	// Store remains usable after a wipe.
	if err := s.Put("d", []byte("d")); err != nil {
		t.Fatalf("Put after wipe: %v", err)
	}
	if got, err := s.Get("d"); err != nil || !bytes.Equal(got, []byte("d")) {
		t.Fatalf("Get after wipe = %q, %v; want d, nil", got, err)
	}
}
