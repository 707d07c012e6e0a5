package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var ErrNotFound = errors.New("record not found")

// Record is the pointer-side contract a stored type satisfies, normally by
// embedding models.Meta.
type Record[T any] interface {
	*T
	EntityID() int
	SetID(int)
	Created() time.Time
	SetCreated(time.Time)
	Touch(time.Time)
}

// Store keeps one entity collection fully in memory, backed by a JSON array
// file that is rewritten atomically on every mutation. There is no cross-process
// locking: concurrent external writers are last-write-wins, as elsewhere the
// watcher only papers over that by reloading.
type Store[T any, P Record[T]] struct {
	mu       sync.RWMutex
	path     string
	items    []T
	onCommit []func()
	lastSum  uint64 // checksum of the bytes last written or read
}

// Open loads the collection at path. A missing file is created empty; a
// corrupt one is logged and replaced by an empty collection rather than
// surfaced as a hard failure.
func Open[T any, P Record[T]](path string) (*Store[T, P], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store[T, P]{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.persistLocked(); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
		return s, nil
	}
	s.loadLocked()
	return s, nil
}

// Reload re-reads the backing file, discarding the in-memory collection. Used
// when an external writer touched the file. It reports whether a re-read
// happened: the store's own atomic rewrites also raise filesystem events, and
// those are recognized by checksum and skipped.
func (s *Store[T, P]) Reload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store[T, P]) loadLocked() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		log.Printf("storage: read %s: %v (falling back to empty collection)", s.path, err)
		s.items = nil
		s.lastSum = 0
		return true
	}
	sum := checksum(data)
	if s.lastSum != 0 && sum == s.lastSum {
		return false
	}
	s.lastSum = sum
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("storage: parse %s: %v (falling back to empty collection)", s.path, err)
		s.items = nil
		return true
	}
	s.items = items
	return true
}

// Path returns the backing file path.
func (s *Store[T, P]) Path() string { return s.path }

// Subscribe registers fn to run after every durable commit. Subscribers run
// synchronously, in registration order, and must not call back into the store.
func (s *Store[T, P]) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = append(s.onCommit, fn)
}

// All returns a copy of the collection in insertion order.
func (s *Store[T, P]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T, P]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T, P]) Get(id int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if P(&s.items[i]).EntityID() == id {
			return s.items[i], nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// Create assigns the next id (max existing + 1), stamps timestamps, appends and
// persists. The stored entity, id included, is returned.
func (s *Store[T, P]) Create(e T) (T, error) {
	s.mu.Lock()
	now := time.Now().UTC()
	p := P(&e)
	p.SetID(s.nextIDLocked())
	p.SetCreated(now)
	p.Touch(now)
	s.items = append(s.items, e)
	if err := s.persistLocked(); err != nil {
		s.items = s.items[:len(s.items)-1]
		s.mu.Unlock()
		var zero T
		return zero, err
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
	return e, nil
}

// Update replaces the record with the given id in place, keeping its creation
// timestamp and refreshing the modification one.
func (s *Store[T, P]) Update(id int, e T) (T, error) {
	s.mu.Lock()
	for i := range s.items {
		if P(&s.items[i]).EntityID() != id {
			continue
		}
		p := P(&e)
		p.SetID(id)
		p.SetCreated(P(&s.items[i]).Created())
		p.Touch(time.Now().UTC())
		prev := s.items[i]
		s.items[i] = e
		if err := s.persistLocked(); err != nil {
			s.items[i] = prev
			s.mu.Unlock()
			var zero T
			return zero, err
		}
		subs := s.subscribersLocked()
		s.mu.Unlock()
		notify(subs)
		return e, nil
	}
	s.mu.Unlock()
	var zero T
	return zero, ErrNotFound
}

// Delete removes the record with the given id. The file is rewritten only when
// a removal actually happened.
func (s *Store[T, P]) Delete(id int) error {
	s.mu.Lock()
	for i := range s.items {
		if P(&s.items[i]).EntityID() != id {
			continue
		}
		removed := s.items[i]
		s.items = append(s.items[:i], s.items[i+1:]...)
		if err := s.persistLocked(); err != nil {
			s.items = append(s.items[:i], append([]T{removed}, s.items[i:]...)...)
			s.mu.Unlock()
			return err
		}
		subs := s.subscribersLocked()
		s.mu.Unlock()
		notify(subs)
		return nil
	}
	s.mu.Unlock()
	return ErrNotFound
}

func (s *Store[T, P]) nextIDLocked() int {
	max := 0
	for i := range s.items {
		if id := P(&s.items[i]).EntityID(); id > max {
			max = id
		}
	}
	return max + 1
}

func (s *Store[T, P]) persistLocked() error {
	items := s.items
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	data = append(data, '\n')
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	s.lastSum = checksum(data)
	return nil
}

func checksum(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

func (s *Store[T, P]) subscribersLocked() []func() {
	return append([]func(){}, s.onCommit...)
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
