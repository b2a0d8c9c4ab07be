package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	mu  stdsync.Mutex
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakePinger) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func TestMonitor_EmitsTransitionsOnlyOnChange(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, 5*time.Millisecond, testLogger())

	var mu stdsync.Mutex
	var transitions []bool
	m.OnChange(func(ctx context.Context, online bool) {
		mu.Lock()
		transitions = append(transitions, online)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// first successful probe flips offline -> online
	require.Eventually(t, func() bool { return m.Online() }, time.Second, time.Millisecond)

	// repeated successes are silent; then a failure flips back
	time.Sleep(25 * time.Millisecond)
	p.set(errors.New("unreachable"))
	require.Eventually(t, func() bool { return !m.Online() }, time.Second, time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, transitions)
}

func TestMonitor_StartsOffline(t *testing.T) {
	m := NewMonitor(&fakePinger{err: errors.New("down")}, time.Minute, testLogger())
	assert.False(t, m.Online())
}
