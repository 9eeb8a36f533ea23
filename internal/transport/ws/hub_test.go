package ws

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	"github.com/Sahil-1827/task-management-system-backend/internal/presence"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu       sync.Mutex
	written  []Message
	writeErr error
	closed   chan struct{}
	once     sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, v.(Message))
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.written...)
}

func serve(t *testing.T, hub *Hub, reg *presence.Registry, userID string, conn *fakeConn) (string, chan struct{}) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		hub.Serve(userID, conn)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(reg.ChannelsFor(userID)) > 0 }, time.Second, 5*time.Millisecond)
	return reg.ChannelsFor(userID)[0], done
}

func TestHubDeliversInOrder(t *testing.T) {
	reg := presence.NewRegistry()
	hub := NewHub(zap.NewNop().Sugar(), reg, 8)
	conn := newFakeConn()
	ch, done := serve(t, hub, reg, "u1", conn)

	require.NoError(t, hub.Emit(ch, entities.EventTaskAssigned, "a"))
	require.NoError(t, hub.Emit(ch, entities.EventTaskUpdated, "b"))

	require.Eventually(t, func() bool { return len(conn.messages()) == 2 }, time.Second, 5*time.Millisecond)
	msgs := conn.messages()
	require.Equal(t, entities.EventTaskAssigned, msgs[0].Event)
	require.Equal(t, entities.EventTaskUpdated, msgs[1].Event)

	_ = conn.Close()
	<-done
	require.False(t, reg.IsOnline("u1"))
	require.Zero(t, hub.Count())
	require.ErrorIs(t, hub.Emit(ch, entities.EventTaskUpdated, "c"), ErrChannelNotFound)
}

func TestHubEmitUnknownChannel(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), presence.NewRegistry(), 1)
	require.ErrorIs(t, hub.Emit("nope", entities.EventTeamAdded, nil), ErrChannelNotFound)
}

func TestHubWriteFailureClosesChannel(t *testing.T) {
	reg := presence.NewRegistry()
	hub := NewHub(zap.NewNop().Sugar(), reg, 4)
	conn := newFakeConn()
	conn.writeErr = errors.New("broken pipe")
	ch, done := serve(t, hub, reg, "u1", conn)

	require.NoError(t, hub.Emit(ch, entities.EventTeamAdded, nil))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("serve did not return after write failure")
	}
	require.False(t, reg.IsOnline("u1"))
}

func TestHubCloseDisconnectsAll(t *testing.T) {
	reg := presence.NewRegistry()
	hub := NewHub(zap.NewNop().Sugar(), reg, 4)
	_, done1 := serve(t, hub, reg, "u1", newFakeConn())
	_, done2 := serve(t, hub, reg, "u2", newFakeConn())

	hub.Close()

	for _, done := range []chan struct{}{done1, done2} {
		select {
		case <-done:
		default:
			t.Fatal("Close returned before a channel was torn down")
		}
	}
	require.Empty(t, reg.Online())
	require.Zero(t, hub.Count())
}

func TestHubRejectsConnectionsAfterClose(t *testing.T) {
	reg := presence.NewRegistry()
	hub := NewHub(zap.NewNop().Sugar(), reg, 4)
	hub.Close()

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		hub.Serve("late", conn)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("serve accepted a connection after close")
	}
	select {
	case <-conn.closed:
	default:
		t.Fatal("late connection was not closed")
	}
	require.False(t, reg.IsOnline("late"))
	require.Zero(t, hub.Count())
}

func TestHubCloseRacesWithServe(t *testing.T) {
	reg := presence.NewRegistry()
	hub := NewHub(zap.NewNop().Sugar(), reg, 4)

	var wg sync.WaitGroup
	conns := make([]*fakeConn, 8)
	for i := range conns {
		conns[i] = newFakeConn()
		wg.Add(1)
		go func(c *fakeConn) {
			defer wg.Done()
			hub.Serve("u", c)
		}(conns[i])
	}
	hub.Close()

	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("a connection survived close")
	}
	require.False(t, reg.IsOnline("u"))
}
