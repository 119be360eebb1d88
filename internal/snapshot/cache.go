// Package snapshot stores the most recent set of flood records together
// with the time it was captured, and decides whether that copy is still
// fresh enough to show.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/flood-monitor/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Storage keys. They are always written together.
const (
	DataKey      = "floodData"
	TimestampKey = "floodDataTimestamp"
)

// DefaultTTL is how long a snapshot stays valid after capture.
const DefaultTTL = 30 * time.Minute

// Store is the key-value capability the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// multiSetter is implemented by stores that can write several keys atomically.
type multiSetter interface {
	SetMulti(ctx context.Context, entries map[string]string) error
}

// Lookup classifies the outcome of Load. Values double as metric labels.
type Lookup string

const (
	LookupHit     Lookup = "hit"
	LookupMiss    Lookup = "miss"
	LookupExpired Lookup = "expired"
	LookupCorrupt Lookup = "corrupt"
)

// Entry is a decoded snapshot.
type Entry struct {
	Records    []domain.FloodRecord
	CapturedAt time.Time
}

// Age returns how old the entry is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CapturedAt)
}

// Cache reads and writes snapshots through a Store.
type Cache struct {
	store Store
	clock clockwork.Clock
	ttl   time.Duration
}

// New creates a cache over store. A nil clock uses real time and a
// non-positive ttl uses DefaultTTL.
func New(store Store, clock clockwork.Clock, ttl time.Duration) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, clock: clock, ttl: ttl}
}

// TTL returns the validity window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Load returns the stored snapshot when both keys are present and the entry
// is younger than the TTL. Any other outcome is reported through Lookup;
// the error explains store failures and corrupt values.
func (c *Cache) Load(ctx context.Context) (Entry, Lookup, error) {
	data, okData, err := c.store.Get(ctx, DataKey)
	if err != nil {
		return Entry{}, LookupMiss, fmt.Errorf("read %s: %w", DataKey, err)
	}
	stamp, okStamp, err := c.store.Get(ctx, TimestampKey)
	if err != nil {
		return Entry{}, LookupMiss, fmt.Errorf("read %s: %w", TimestampKey, err)
	}
	if !okData || !okStamp || data == "" || stamp == "" {
		return Entry{}, LookupMiss, nil
	}

	millis, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return Entry{}, LookupCorrupt, fmt.Errorf("parse %s: %w", TimestampKey, err)
	}
	entry := Entry{CapturedAt: time.UnixMilli(millis)}

	if entry.Age(c.clock.Now()) >= c.ttl {
		return entry, LookupExpired, nil
	}

	if err := json.Unmarshal([]byte(data), &entry.Records); err != nil {
		return Entry{}, LookupCorrupt, fmt.Errorf("decode %s: %w", DataKey, err)
	}
	return entry, LookupHit, nil
}

// Save overwrites the snapshot with records captured now. Nothing is merged
// with the previous entry.
func (c *Cache) Save(ctx context.Context, records []domain.FloodRecord) (Entry, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return Entry{}, fmt.Errorf("encode snapshot: %w", err)
	}
	captured := time.UnixMilli(c.clock.Now().UnixMilli())
	stamp := strconv.FormatInt(captured.UnixMilli(), 10)

	if ms, ok := c.store.(multiSetter); ok {
		err = ms.SetMulti(ctx, map[string]string{DataKey: string(data), TimestampKey: stamp})
	} else {
		err = c.setPair(ctx, string(data), stamp)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("write snapshot: %w", err)
	}
	return Entry{Records: records, CapturedAt: captured}, nil
}

// setPair writes the data key first, so a failed timestamp write leaves the
// previous timestamp, which is never newer than the data it describes.
func (c *Cache) setPair(ctx context.Context, data, stamp string) error {
	if err := c.store.Set(ctx, DataKey, data); err != nil {
		return err
	}
	return c.store.Set(ctx, TimestampKey, stamp)
}
