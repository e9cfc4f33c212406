// Package cache provides bounded memoization for the calculation engine.
// Keys are built from normalized snapshots of the inputs: times truncated to
// a tick and angles rounded to a fixed precision, so two calls that differ
// only in floating-point representation (or sub-tick time) hit the same
// entry. Entries never expire by age; the LRU bound is the only eviction.
package cache

import (
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds each cache when the configuration does not say
// otherwise.
const DefaultMaxEntries = 512

// DefaultTick is the time granularity of cache keys.
const DefaultTick = time.Second

// angleScale rounds angles to 1e-6 degrees for key purposes, about 4 mm of
// sky at the horizon.
const angleScale = 1e6

// Key is a normalized, comparable snapshot of calculation inputs.
type Key struct {
	Op      string
	TimeSec int64
	A, B, C int64
	Tag     string
}

// NewKey builds a Key for an operation at a time with up to three angle
// arguments in degrees, normalizing each component.
func NewKey(op string, t time.Time, tick time.Duration, angles ...float64) Key {
	if tick <= 0 {
		tick = DefaultTick
	}
	k := Key{Op: op, TimeSec: t.UTC().Truncate(tick).Unix()}
	for i, a := range angles {
		q := quantizeAngle(a)
		switch i {
		case 0:
			k.A = q
		case 1:
			k.B = q
		case 2:
			k.C = q
		default:
			// Fold extras into the tag; callers rarely need more than three.
			k.Tag += fmt.Sprintf("|%d", q)
		}
	}
	return k
}

// WithTag returns a copy of the key carrying a discriminator string, used
// for enum-valued arguments such as twilight or event types.
func (k Key) WithTag(tag string) Key {
	k.Tag = tag
	return k
}

func quantizeAngle(deg float64) int64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return math.MinInt64
	}
	return int64(math.Round(deg * angleScale))
}

// Cache is a bounded LRU from normalized keys to values. A nil or disabled
// cache is valid and simply never hits, which keeps benchmark runs and
// callers with unhashable inputs honest.
type Cache[V any] struct {
	lru     *lru.Cache[Key, V]
	enabled bool
}

// New creates a cache bounded to maxEntries. maxEntries <= 0 selects the
// default bound.
func New[V any](maxEntries int) (*Cache[V], error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	l, err := lru.New[Key, V](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Cache[V]{lru: l, enabled: true}, nil
}

// Disabled returns a cache that stores nothing.
func Disabled[V any]() *Cache[V] {
	return &Cache[V]{}
}

// Get returns the cached value for the key and whether it was present.
func (c *Cache[V]) Get(k Key) (V, bool) {
	var zero V
	if c == nil || !c.enabled || c.lru == nil {
		return zero, false
	}
	return c.lru.Get(k)
}

// Add stores the value under the key.
func (c *Cache[V]) Add(k Key, v V) {
	if c == nil || !c.enabled || c.lru == nil {
		return
	}
	c.lru.Add(k, v)
}

// Len returns the number of resident entries.
func (c *Cache[V]) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Purge()
}
