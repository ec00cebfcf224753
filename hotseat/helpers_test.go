/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)

	return c.now
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
	conns [][]string
}

func (r *recorder) Publish(connIDs []string, snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snaps = append(r.snaps, snap)
	r.conns = append(r.conns, connIDs)
}

func (r *recorder) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snaps[len(r.snaps)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.snaps)
}

func sequence(prefix string) func() string {
	var mu sync.Mutex
	n := 0

	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++

		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *fakeClock, *recorder) {
	t.Helper()

	clock := newFakeClock()
	rec := &recorder{}
	base := []Option{
		WithClock(clock),
		WithNotifier(rec),
		WithIDGenerator(sequence("id")),
		WithCodeGenerator(sequence("ROOM")),
	}

	return NewRegistry(append(base, opts...)...), clock, rec
}

// table is a room with named players, each on the connection "conn-<name>".
type table struct {
	reg   *Registry
	clock *fakeClock
	rec   *recorder
	code  string
	ids   map[string]string
}

func conn(name string) string {
	return "conn-" + name
}

func newTable(t *testing.T, names ...string) *table {
	t.Helper()

	reg, clock, rec := newTestRegistry(t)
	tb := &table{reg: reg, clock: clock, rec: rec, ids: make(map[string]string)}

	joined, err := reg.CreateRoom(conn(names[0]), names[0])
	require.NoError(t, err)
	tb.code = joined.Room.Code
	tb.ids[names[0]] = joined.PlayerID

	for _, name := range names[1:] {
		joined, err := reg.JoinRoom(conn(name), tb.code, name)
		require.NoError(t, err)
		tb.ids[name] = joined.PlayerID
	}

	return tb
}

func startedTable(t *testing.T, names ...string) *table {
	t.Helper()

	tb := newTable(t, names...)
	require.NoError(t, tb.reg.StartGame(conn(names[0])))

	return tb
}

func (tb *table) snap(t *testing.T) Snapshot {
	t.Helper()

	s, err := tb.reg.Snapshot(tb.code)
	require.NoError(t, err)

	return s
}

func (tb *table) round(t *testing.T) RoundSnapshot {
	t.Helper()

	rd, ok := tb.snap(t).CurrentRound()
	require.True(t, ok)

	return rd
}

func (tb *table) name(t *testing.T, id string) string {
	t.Helper()

	for name, pid := range tb.ids {
		if pid == id {
			return name
		}
	}
	t.Fatalf("unknown player id %s", id)

	return ""
}

func (tb *table) player(t *testing.T, name string) PlayerSnapshot {
	t.Helper()

	p, ok := tb.snap(t).Player(tb.ids[name])
	require.True(t, ok)

	return p
}

func (tb *table) tick(d time.Duration) {
	tb.reg.Tick(tb.clock.Advance(d))
}

func hostCount(s Snapshot) int {
	n := 0
	for _, p := range s.Players {
		if p.IsHost {
			n++
		}
	}

	return n
}

func realCount(rd RoundSnapshot) int {
	n := 0
	for _, s := range rd.Submissions {
		if s.IsRealAnswer {
			n++
		}
	}

	return n
}
