package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceEventString(t *testing.T) {
	ev := TraceEvent{Event: RouteAdded, Desc: "(dst: 4, nh: 2, cost: 3)", Args: []any{"sender", 2}}
	assert.Equal(t, "ROUTE_ADDED (dst: 4, nh: 2, cost: 3) sender=2", ev.String())

	ev = TraceEvent{Event: LinkExpired, Args: []any{"router", 7, "dangling"}}
	assert.Equal(t, "LINK_EXPIRED router=7", ev.String())
}

func TestRouterEventNames(t *testing.T) {
	assert.Equal(t, "PARTITION_CHANGED", PartitionChanged.String())
	assert.Equal(t, "RouterEvent(999)", RouterEvent(999).String())
	assert.False(t, RouteWithdrawn.IsWarning())
	assert.True(t, InvalidLeaderData.IsWarning())
}

func TestMeshTraceFanout(t *testing.T) {
	tr := &MeshTrace{}
	require.NoError(t, tr.Init(nil))

	a, cancelA := tr.Subscribe(4)
	b, cancelB := tr.Subscribe(4)

	tr.Submit(TraceEvent{Event: LinkAdded})
	for _, ch := range []<-chan any{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, LinkAdded, ev.(TraceEvent).Event)
		case <-time.After(time.Second):
			t.Fatal("trace event not delivered")
		}
	}

	cancelA()
	tr.Submit(TraceEvent{Event: LinkExpired})
	select {
	case ev := <-b:
		assert.Equal(t, LinkExpired, ev.(TraceEvent).Event)
	case <-time.After(time.Second):
		t.Fatal("trace event not delivered")
	}
	cancelB()
	require.NoError(t, tr.Cleanup(nil))
}
