package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryMultipleChannels(t *testing.T) {
	r := NewRegistry()

	r.Register("u", "c1")
	r.Register("u", "c2")
	require.True(t, r.IsOnline("u"))
	require.Equal(t, []string{"c1", "c2"}, r.ChannelsFor("u"))

	owner, ok := r.Unregister("c1")
	require.True(t, ok)
	require.Equal(t, "u", owner)
	require.True(t, r.IsOnline("u"))

	_, ok = r.Unregister("c2")
	require.True(t, ok)
	require.False(t, r.IsOnline("u"))
	require.Empty(t, r.ChannelsFor("u"))
	require.Empty(t, r.Online())
}

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("u", "c1")
	r.Register("u", "c1")
	require.Equal(t, []string{"c1"}, r.ChannelsFor("u"))

	_, ok := r.Unregister("c1")
	require.True(t, ok)
	require.False(t, r.IsOnline("u"))
}

func TestRegistryUnknownChannel(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Unregister("missing")
	require.False(t, ok)
}

func TestRegistryChannelMovesBetweenUsers(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "c1")
	r.Register("b", "c1")

	require.False(t, r.IsOnline("a"))
	require.Equal(t, []string{"c1"}, r.ChannelsFor("b"))
}

func TestRegistryChannelsForReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register("u", "c1")
	chs := r.ChannelsFor("u")
	chs[0] = "mutated"
	require.Equal(t, []string{"c1"}, r.ChannelsFor("u"))
}

func TestRegistryConcurrentLifecycles(t *testing.T) {
	r := NewRegistry()
	const users, perUser = 20, 25

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		for c := 0; c < perUser; c++ {
			wg.Add(1)
			go func(u, c int) {
				defer wg.Done()
				user := fmt.Sprintf("u%d", u)
				ch := fmt.Sprintf("u%d-c%d", u, c)
				r.Register(user, ch)
				_ = r.IsOnline(user)
				for _, got := range r.ChannelsFor(user) {
					require.NotEmpty(t, got)
				}
				if c%2 == 0 {
					r.Unregister(ch)
				}
			}(u, c)
		}
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		user := fmt.Sprintf("u%d", u)
		require.Len(t, r.ChannelsFor(user), perUser/2)
		require.True(t, r.IsOnline(user))
	}
}
