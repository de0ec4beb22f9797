package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []any
	err    error
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, v)
	return nil
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func TestBroadcastReachesOnlyTopicSubscribers(t *testing.T) {
	hub := NewHub()

	connA, connB, connC := &fakeConn{}, &fakeConn{}, &fakeConn{}
	a := NewClient(1, connA)
	b := NewClient(2, connB)
	c := NewClient(3, connC)

	hub.Subscribe(a, 10)
	hub.Subscribe(b, 10)
	hub.Subscribe(c, 20)

	hub.Broadcast(10, map[string]string{"type": "new_message"}, nil)

	assert.Equal(t, 1, connA.count())
	assert.Equal(t, 1, connB.count())
	assert.Equal(t, 0, connC.count(), "other topics must not receive the frame")
}

func TestBroadcastExcludesSender(t *testing.T) {
	hub := NewHub()

	connA, connB := &fakeConn{}, &fakeConn{}
	a := NewClient(1, connA)
	b := NewClient(2, connB)
	hub.Subscribe(a, 10)
	hub.Subscribe(b, 10)

	hub.Broadcast(10, "typing", a)

	assert.Equal(t, 0, connA.count())
	assert.Equal(t, 1, connB.count())
}

func TestSubscribeReplacesBinding(t *testing.T) {
	hub := NewHub()

	conn := &fakeConn{}
	c := NewClient(1, conn)

	hub.Subscribe(c, 10)
	require.Equal(t, int64(10), hub.TopicOf(c))

	hub.Subscribe(c, 20)
	assert.Equal(t, int64(20), hub.TopicOf(c))

	hub.Broadcast(10, "stale", nil)
	assert.Equal(t, 0, conn.count(), "moved client must not hear the old topic")

	hub.Broadcast(20, "fresh", nil)
	assert.Equal(t, 1, conn.count())
}

func TestRemoveUnbinds(t *testing.T) {
	hub := NewHub()

	conn := &fakeConn{}
	c := NewClient(1, conn)
	hub.Subscribe(c, 10)
	hub.Remove(c)

	assert.Equal(t, int64(0), hub.TopicOf(c))
	hub.Broadcast(10, "gone", nil)
	assert.Equal(t, 0, conn.count())
}

func TestBroadcastSurvivesDeadConnection(t *testing.T) {
	hub := NewHub()

	dead := &fakeConn{err: assert.AnError}
	alive := &fakeConn{}
	a := NewClient(1, dead)
	b := NewClient(2, alive)
	hub.Subscribe(a, 10)
	hub.Subscribe(b, 10)

	hub.Broadcast(10, "hello", nil)

	assert.Equal(t, 1, alive.count(), "one failed write must not stop delivery")
}

func TestConcurrentSubscribeAndBroadcast(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			c := NewClient(userID, &fakeConn{})
			hub.Subscribe(c, userID%3)
			hub.Broadcast(userID%3, "x", nil)
			hub.Remove(c)
		}(i)
	}
	wg.Wait()

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.bound)
	assert.Empty(t, hub.topics)
}
