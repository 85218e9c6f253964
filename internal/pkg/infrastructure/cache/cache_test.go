package cache

import (
	"testing"
	"time"

	"github.com/courseo/cartosync/pkg/types"
	"github.com/matryer/is"
)

func TestGetReturnsStoredValueWhileFresh(t *testing.T) {
	is, store, _ := testSetup(t)

	err := store.Set(KeySites, []types.Site{{ID: "site-01", Name: "Depot Nord"}})
	is.NoErr(err)

	sites, ok := Lookup[[]types.Site](store, KeySites, DefaultMaxAge)
	is.True(ok)
	is.Equal(len(sites), 1)
	is.Equal(sites[0].ID, "site-01")
}

func TestGetMissesOnceExpired(t *testing.T) {
	is, store, clock := testSetup(t)

	is.NoErr(store.Set(KeySites, []types.Site{{ID: "site-01"}}))

	clock.advance(DefaultMaxAge - time.Millisecond)
	_, ok := Lookup[[]types.Site](store, KeySites, DefaultMaxAge)
	is.True(ok) // still inside the window

	clock.advance(time.Millisecond)
	_, ok = Lookup[[]types.Site](store, KeySites, DefaultMaxAge)
	is.True(!ok) // age == maxAge is excluded
}

func TestMalformedEntryIsAMiss(t *testing.T) {
	is := is.New(t)

	kv := NewMemoryKV()
	kv.Set(KeySites, "{not json")
	store := New(kv)

	_, ok := Lookup[[]types.Site](store, KeySites, DefaultMaxAge)
	is.True(!ok)
}

func TestSetOverwritesAndRestampsTime(t *testing.T) {
	is, store, clock := testSetup(t)

	is.NoErr(store.Set(KeyPoles, []types.Pole{{ID: "p1"}}))
	clock.advance(DefaultMaxAge)
	is.NoErr(store.Set(KeyPoles, []types.Pole{{ID: "p2"}}))

	poles, ok := Lookup[[]types.Pole](store, KeyPoles, DefaultMaxAge)
	is.True(ok)
	is.Equal(poles[0].ID, "p2")
}

func TestInvalidateSelectedKeys(t *testing.T) {
	is, store, _ := testSetup(t)

	is.NoErr(store.Set(KeySites, []types.Site{{ID: "s"}}))
	is.NoErr(store.Set(KeyPoles, []types.Pole{{ID: "p"}}))

	store.Invalidate(KeySites)

	_, ok := Lookup[[]types.Site](store, KeySites, DefaultMaxAge)
	is.True(!ok)
	_, ok = Lookup[[]types.Pole](store, KeyPoles, DefaultMaxAge)
	is.True(ok)
}

func TestInvalidateAllClearsEveryKnownKey(t *testing.T) {
	is, store, _ := testSetup(t)

	is.NoErr(store.Set(KeySites, []types.Site{{ID: "s"}}))
	is.NoErr(store.Set(GeocodePrefix+"4 rue des lilas, lyon, 69003, france", types.Location{Latitude: 45.76, Longitude: 4.85}))

	store.Invalidate()

	_, ok := Lookup[[]types.Site](store, KeySites, DefaultMaxAge)
	is.True(!ok)
	_, ok = Lookup[types.Location](store, GeocodePrefix+"4 rue des lilas, lyon, 69003, france", DefaultMaxAge)
	is.True(!ok)
}

type testClock struct {
	now time.Time
}

func (c *testClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testSetup(t *testing.T) (*is.I, *Store, *testClock) {
	is := is.New(t)
	clock := &testClock{now: time.Unix(1700000000, 0)}
	store := New(NewMemoryKV(), WithClock(func() time.Time { return clock.now }))
	return is, store, clock
}
