package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// Well known keys for the collections the engine caches. Invalidate with no
// arguments clears all of them.
const (
	KeySites      = "cartosync:sites"
	KeyPoles      = "cartosync:poles"
	KeyStyles     = "cartosync:styles"
	GeocodePrefix = "cartosync:geocode:"
)

// DefaultMaxAge is the freshness window for cached collections.
const DefaultMaxAge = 30 * time.Minute

// KeyValue is the synchronous string store backing the cache. The host
// environment decides durability and size limits.
type KeyValue interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	Delete(key string)
}

type envelope struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Store wraps a KeyValue with {timestamp, data} envelopes and age checks.
// A malformed entry is indistinguishable from an absent one.
type Store struct {
	kv  KeyValue
	now func() time.Time

	mu   sync.Mutex
	seen map[string]struct{}
}

type StoreOption func(*Store)

// WithClock overrides the time source, so tests can control expiry.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func New(kv KeyValue, opts ...StoreOption) *Store {
	s := &Store{
		kv:   kv,
		now:  time.Now,
		seen: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get unmarshals a fresh entry into out and reports whether it succeeded.
// Absent, malformed and expired entries are all plain misses.
func (s *Store) Get(key string, maxAge time.Duration, out any) bool {
	raw, ok := s.kv.Get(key)
	if !ok {
		return false
	}

	var e envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return false
	}

	age := s.now().UnixMilli() - e.Timestamp
	if age >= maxAge.Milliseconds() {
		return false
	}

	return json.Unmarshal(e.Data, out) == nil
}

// Set overwrites unconditionally and stamps the current time.
func (s *Store) Set(key string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(envelope{
		Timestamp: s.now().UnixMilli(),
		Data:      b,
	})
	if err != nil {
		return err
	}

	s.kv.Set(key, string(raw))

	s.mu.Lock()
	s.seen[key] = struct{}{}
	s.mu.Unlock()

	return nil
}

// Invalidate clears the given keys, or, called without arguments, every well
// known key plus any key written through this store.
func (s *Store) Invalidate(keys ...string) {
	if len(keys) == 0 {
		keys = []string{KeySites, KeyPoles, KeyStyles}
		s.mu.Lock()
		for k := range s.seen {
			keys = append(keys, k)
		}
		s.mu.Unlock()
	}

	for _, k := range keys {
		s.kv.Delete(k)
	}
}

// Lookup is a typed convenience wrapper around Store.Get.
func Lookup[T any](s *Store, key string, maxAge time.Duration) (T, bool) {
	var value T
	ok := s.Get(key, maxAge, &value)
	return value, ok
}
