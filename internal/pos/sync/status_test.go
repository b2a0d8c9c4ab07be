package sync

import (
	"fmt"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_ReplaysCurrentStatus(t *testing.T) {
	p := NewStatusPublisher()
	p.Apply(Patch{Online: ptr(true), PendingSales: ptr(3)})

	var got []Status
	unsub := p.Subscribe(func(s Status) { got = append(got, s) })
	defer unsub()

	// the late subscriber immediately sees the current state
	assert.Len(t, got, 1)
	assert.True(t, got[0].Online)
	assert.Equal(t, 3, got[0].PendingSales)
}

func TestApply_NotifiesOnlyOnChange(t *testing.T) {
	p := NewStatusPublisher()

	var notifications int
	unsub := p.Subscribe(func(Status) { notifications++ })
	defer unsub()
	notifications = 0 // ignore the replay

	p.Apply(Patch{Online: ptr(true)})
	assert.Equal(t, 1, notifications)

	// identical patch changes nothing, so nobody is notified
	p.Apply(Patch{Online: ptr(true)})
	assert.Equal(t, 1, notifications)

	// empty patch is also a no-op
	p.Apply(Patch{})
	assert.Equal(t, 1, notifications)

	p.Apply(Patch{Online: ptr(false), Err: ptr("boom")})
	assert.Equal(t, 2, notifications)
}

func TestApply_MergesPartialPatches(t *testing.T) {
	p := NewStatusPublisher()

	now := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)
	p.Apply(Patch{Online: ptr(true), PendingSales: ptr(2)})
	p.Apply(Patch{LastSync: ptr(now)})

	st := p.Current()
	assert.True(t, st.Online)
	assert.Equal(t, 2, st.PendingSales)
	assert.Equal(t, now, st.LastSync)
}

func TestUnsubscribe_StopsNotifications(t *testing.T) {
	p := NewStatusPublisher()

	var notifications int
	unsub := p.Subscribe(func(Status) { notifications++ })
	notifications = 0

	unsub()
	p.Apply(Patch{Online: ptr(true)})
	assert.Equal(t, 0, notifications)
}

func TestApply_ListenersGetACopy(t *testing.T) {
	p := NewStatusPublisher()

	var seen Status
	unsub := p.Subscribe(func(s Status) { seen = s })
	defer unsub()

	p.Apply(Patch{Err: ptr("first")})
	first := seen

	p.Apply(Patch{Err: ptr("second")})
	assert.Equal(t, "first", first.Err)
	assert.Equal(t, "second", seen.Err)
}

func TestApply_ConcurrentWritersDeliverInCommitOrder(t *testing.T) {
	p := NewStatusPublisher()

	var seen []int
	unsub := p.Subscribe(func(s Status) { seen = append(seen, s.PendingSales) })
	defer unsub()

	const steps = 200
	var wg stdsync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= steps; i++ {
			p.Apply(Patch{PendingSales: ptr(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < steps; i++ {
			p.Apply(Patch{Err: ptr(fmt.Sprintf("e%d", i))})
		}
	}()
	wg.Wait()

	// only one writer touches PendingSales, so an ordered delivery never
	// shows it going backwards; a stale notification overtaking a newer
	// one would
	last := 0
	for _, n := range seen {
		require.GreaterOrEqual(t, n, last)
		last = n
	}
	assert.Equal(t, steps, p.Current().PendingSales)
}
